package tuning

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadJobFile reads and validates a single job from a YAML file.
func LoadJobFile(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}

	var job Job
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&job); err != nil {
		return nil, fmt.Errorf("parse job file %s: %w", path, err)
	}

	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job in %s: %w", path, err)
	}
	return &job, nil
}
