package devserver

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sampleYAML []byte

// Todo is a task record served by the dev server
type Todo struct {
	ID          int        `yaml:"id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Completed   bool       `yaml:"completed"`
	Priority    string     `yaml:"priority"`
	Tags        []string   `yaml:"tags"`
	DueDate     *time.Time `yaml:"due_date"`
	CreatedAt   *time.Time `yaml:"created_at"`
	UpdatedAt   *time.Time `yaml:"updated_at"`
}

// Note is a note record served by the dev server
type Note struct {
	ID        int        `yaml:"id"`
	Title     string     `yaml:"title"`
	Content   string     `yaml:"content"`
	Category  string     `yaml:"category"`
	Tags      []string   `yaml:"tags"`
	Color     string     `yaml:"color"`
	Pinned    bool       `yaml:"pinned"`
	CreatedAt *time.Time `yaml:"created_at"`
	UpdatedAt *time.Time `yaml:"updated_at"`
}

// Fixtures is the data set behind the dev server
type Fixtures struct {
	Todos []Todo `yaml:"todos"`
	Notes []Note `yaml:"notes"`
}

// LoadFixtures reads a YAML fixture file
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes YAML fixture data
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

// SampleFixtures returns the built-in data set
func SampleFixtures() *Fixtures {
	f, err := ParseFixtures(sampleYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded sample fixtures: %v", err))
	}
	return f
}
