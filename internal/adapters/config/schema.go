package config

// Deployfile represents the structure of the stevedore.yaml deployment file.
// Stages and services are sequences, not maps, so declaration order survives
// parsing and plans stay deterministic.
type Deployfile struct {
	Version  string       `yaml:"version"`
	Root     string       `yaml:"root"`
	Budget   ResourceDTO  `yaml:"budget"`
	Stages   []StageDTO   `yaml:"stages"`
	Services []ServiceDTO `yaml:"services"`
}

// StageDTO represents a build stage declaration.
type StageDTO struct {
	Name         string   `yaml:"name"`
	Instructions []string `yaml:"instructions"`
	Inputs       []string `yaml:"inputs"`
	From         []string `yaml:"from"`
}

// ServiceDTO represents a service declaration.
type ServiceDTO struct {
	Name        string          `yaml:"name"`
	DependsOn   []string        `yaml:"dependsOn"`
	Healthcheck *HealthcheckDTO `yaml:"healthcheck"`
	Resources   ResourcesDTO    `yaml:"resources"`
}

// HealthcheckDTO represents a service's probe contract. Interval and Timeout
// are Go duration strings (e.g. "5s").
type HealthcheckDTO struct {
	Test     []string `yaml:"test"`
	Interval string   `yaml:"interval"`
	Timeout  string   `yaml:"timeout"`
	Retries  int      `yaml:"retries"`
}

// ResourcesDTO pairs resource requests with limits.
type ResourcesDTO struct {
	Requests ResourceDTO `yaml:"requests"`
	Limits   ResourceDTO `yaml:"limits"`
}

// ResourceDTO is one resource amount: CPU cores and memory in MiB.
type ResourceDTO struct {
	CPU      float64 `yaml:"cpu"`
	MemoryMB int64   `yaml:"memoryMB"`
}
