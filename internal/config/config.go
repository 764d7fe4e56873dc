// Package config handles parkwalk configuration loading and management.
package config

// Config holds all application settings.
type Config struct {
	Graphics GraphicsConfig    `yaml:"graphics"`
	Audio    AudioConfig       `yaml:"audio"`
	World    WorldConfig       `yaml:"world"`
	Physics  PhysicsConfig     `yaml:"physics"`
	Camera   CameraConfig      `yaml:"camera"`
	Controls map[string]string `yaml:"controls"` // key name -> action
	Debug    DebugConfig       `yaml:"debug"`
	Logging  LoggingConfig     `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	Fullscreen    bool    `yaml:"fullscreen"`
	VSync         bool    `yaml:"vsync"`
	MaxPixelRatio float32 `yaml:"max_pixel_ratio"`
	Shadows       bool    `yaml:"shadows"`
	ShadowMapSize int32   `yaml:"shadow_map_size"`
	Theme         string  `yaml:"theme"` // light or dark
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	MasterVolume float32     `yaml:"master_volume"`
	MusicVolume  float32     `yaml:"music_volume"`
	SFXVolume    float32     `yaml:"sfx_volume"`
	Muted        bool        `yaml:"muted"`
	Sounds       SoundConfig `yaml:"sounds"`
}

// SoundConfig maps each sound cue to a file and its relative volume.
type SoundConfig struct {
	Ambient  SoundFile `yaml:"ambient"`
	Chime    SoundFile `yaml:"chime"`
	Creature SoundFile `yaml:"creature"`
	Jump     SoundFile `yaml:"jump"`
}

// SoundFile is one sound asset.
type SoundFile struct {
	Path   string  `yaml:"path"`
	Volume float32 `yaml:"volume"`
}

// WorldConfig describes the world asset and which of its nodes matter.
type WorldConfig struct {
	Asset         string   `yaml:"asset"`
	ColliderNode  string   `yaml:"collider_node"`
	AvatarNode    string   `yaml:"avatar_node"`
	Interactive   []string `yaml:"interactive"`
	Creatures     []string `yaml:"creatures"`
	HeavyCreature string   `yaml:"heavy_creature"`
	InfoCatalog   string   `yaml:"info_catalog"` // empty uses the built-in catalog
}

// PhysicsConfig holds avatar locomotion tuning.
type PhysicsConfig struct {
	FixedStep     bool    `yaml:"fixed_step"`
	Step          float32 `yaml:"step"`
	Gravity       float32 `yaml:"gravity"`
	JumpImpulse   float32 `yaml:"jump_impulse"`
	MoveSpeed     float32 `yaml:"move_speed"`
	FallThreshold float32 `yaml:"fall_threshold"`
	CapsuleRadius float32 `yaml:"capsule_radius"`
	CapsuleHeight float32 `yaml:"capsule_height"`
}

// CameraConfig holds follow camera tuning.
type CameraConfig struct {
	Offset       [3]float32 `yaml:"offset"`
	Lead         [2]float32 `yaml:"lead"`
	Drop         float32    `yaml:"drop"`
	Zoom         float32    `yaml:"zoom"`
	Frustum      float32    `yaml:"frustum"`
	FollowHeight bool       `yaml:"follow_height"`
}

// DebugConfig holds the inspection server settings.
type DebugConfig struct {
	Addr          string `yaml:"addr"` // empty disables the server
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			VSync:         true,
			MaxPixelRatio: 2,
			Shadows:       true,
			ShadowMapSize: 4096,
			Theme:         "light",
		},
		Audio: AudioConfig{
			MasterVolume: 1.0,
			MusicVolume:  0.3,
			SFXVolume:    0.5,
			Sounds: SoundConfig{
				Ambient:  SoundFile{Path: "sfx/music.ogg", Volume: 1},
				Chime:    SoundFile{Path: "sfx/projects.ogg", Volume: 1},
				Creature: SoundFile{Path: "sfx/pokemon.ogg", Volume: 1},
				Jump:     SoundFile{Path: "sfx/jumpsfx.ogg", Volume: 2},
			},
		},
		World: WorldConfig{
			Asset:        "Portfolio.glb",
			ColliderNode: "Ground_Collider",
			AvatarNode:   "Character",
			Interactive: []string{
				"Project_1", "Project_2", "Project_3",
				"Picnic", "Chest",
				"Squirtle", "Chicken", "Pikachu", "Bulbasaur", "Charmander", "Snorlax",
			},
			Creatures:     []string{"Bulbasaur", "Chicken", "Pikachu", "Charmander", "Squirtle", "Snorlax"},
			HeavyCreature: "Snorlax",
		},
		Physics: PhysicsConfig{
			FixedStep:     true,
			Step:          0.035,
			Gravity:       30,
			JumpImpulse:   11,
			MoveSpeed:     7,
			FallThreshold: -20,
			CapsuleRadius: 0.35,
			CapsuleHeight: 1,
		},
		Camera: CameraConfig{
			Offset:  [3]float32{-33, 39, -37},
			Lead:    [2]float32{10, 10},
			Drop:    39,
			Zoom:    2.2,
			Frustum: 50,
		},
		Controls: map[string]string{
			"w": "forward", "up": "forward",
			"s": "back", "down": "back",
			"a": "left", "left": "left",
			"d": "right", "right": "right",
			"r": "respawn",
		},
		Debug: DebugConfig{
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
