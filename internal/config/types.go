package config

// Config represents the complete configuration structure for modsetup
type Config struct {
	Player   Player   `mapstructure:"player"`
	About    About    `mapstructure:"about"`
	Script   Script   `mapstructure:"script"`
	Assembly Assembly `mapstructure:"assembly"`
	Compile  Compile  `mapstructure:"compile"`
}

// Player holds the product settings new projects inherit
type Player struct {
	CompanyName    string `mapstructure:"company_name"`
	ProductVersion string `mapstructure:"product_version"`
}

// About configures the metadata folder
type About struct {
	Folder  string `mapstructure:"folder"`
	Preview string `mapstructure:"preview"` // source image for Preview.png
	Thumb   string `mapstructure:"thumb"`   // source image for Thumb.png
}

// Script configures the starter script
type Script struct {
	Folder string `mapstructure:"folder"`
}

// Assembly lists what the generated assembly definition references
type Assembly struct {
	References            []string `mapstructure:"references"`
	PrecompiledReferences []string `mapstructure:"precompiled_references"`
	DefineConstraints     []string `mapstructure:"define_constraints"`
}

// Compile configures the command run when a recompile is requested
type Compile struct {
	Command string `mapstructure:"command"`
}
