package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// SkillsConfig maps a job field (e.g. "Marketing") to the skills commonly
// required in that field. Loaded once at start-up and treated as read-only.
type SkillsConfig struct {
	byField map[string][]string
}

var (
	skillsConfig *SkillsConfig
	skillsOnce   sync.Once
	skillsErr    error
)

func LoadSkillsConfig() (*SkillsConfig, error) {
	skillsOnce.Do(func() {
		path := os.Getenv("SKILLS_CONFIG_PATH")
		if path == "" {
			path = "./configs/skills.json"
		}
		data, err := os.ReadFile(path)
		if err != nil {
			skillsErr = fmt.Errorf("read skills config: %w", err)
			return
		}
		var byField map[string][]string
		if err := json.Unmarshal(data, &byField); err != nil {
			skillsErr = fmt.Errorf("parse skills config: %w", err)
			return
		}
		skillsConfig = &SkillsConfig{byField: byField}
	})
	return skillsConfig, skillsErr
}

func NewSkillsConfig(byField map[string][]string) *SkillsConfig {
	return &SkillsConfig{byField: byField}
}

// SkillsForField returns a copy of the configured skills for a field.
func (c *SkillsConfig) SkillsForField(field string) []string {
	if c == nil {
		return nil
	}
	skills, ok := c.byField[field]
	if !ok {
		return nil
	}
	out := make([]string, len(skills))
	copy(out, skills)
	return out
}

func (c *SkillsConfig) Fields() []string {
	if c == nil {
		return nil
	}
	fields := make([]string, 0, len(c.byField))
	for f := range c.byField {
		fields = append(fields, f)
	}
	return fields
}
