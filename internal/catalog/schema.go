package catalog

// Catalog is the YAML description of the built-in platform folders.
type Catalog struct {
	Platforms []Entry `yaml:"platforms"`
}

// Entry describes the root folder created for one platform.
type Entry struct {
	Platform string `yaml:"platform"`
	Name     string `yaml:"name"`
	Color    string `yaml:"color,omitempty"`
	Icon     string `yaml:"icon,omitempty"`
}
