package models

// World is a mapping from coordinate to Room, plus world seed, current
// player coordinate, and the set of discovered coordinates. Seeded RNG is
// derived by hashing (world_seed, x, y, z) so any room is deterministically
// reproducible from its coordinate if ungenerated.
type World struct {
	Seed       string
	Rooms      map[string]*Room // keyed by Coordinate.Key()
	PlayerAt   Coordinate
	Discovered map[string]bool
}

func NewWorld(seed string) *World {
	return &World{
		Seed:       seed,
		Rooms:      make(map[string]*Room),
		Discovered: make(map[string]bool),
	}
}

func (w *World) Room(c Coordinate) (*Room, bool) {
	r, ok := w.Rooms[c.Key()]
	return r, ok
}

func (w *World) SetRoom(r *Room) {
	w.Rooms[r.Coordinate.Key()] = r
	w.Discovered[r.Coordinate.Key()] = true
}

// Config is the top-level YAML configuration for the process: server,
// storage, LLM, gameplay tuning, and the caching/rate-limit/prefetch knobs
// the Intelligence Core needs.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	LLM       LLMConfig       `yaml:"llm"`
	Game      GameConfig      `yaml:"game"`
	Narrative NarrativeConfig `yaml:"narrative"`
	Cache     CacheConfig     `yaml:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Prefetch  PrefetchConfig  `yaml:"prefetch"`
	Autosave  AutosaveConfig  `yaml:"autosave"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	APIKey      string  `yaml:"api_key"`
	APIBase     string  `yaml:"api_base"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type GameConfig struct {
	DefaultHP       int  `yaml:"default_hp"`
	DefaultMP       int  `yaml:"default_mp"`
	MaxTurnsPerRoom int  `yaml:"max_turns_per_room"`
	RoomWidth       int  `yaml:"room_width"`
	RoomHeight      int  `yaml:"room_height"`
}

type NarrativeConfig struct {
	ShortTermWindow int `yaml:"short_term_window"`
	CondenseBatch   int `yaml:"condense_batch"`
	SummaryMaxTokens int `yaml:"summary_max_tokens"`
}

type CacheConfig struct {
	MaxEntries int            `yaml:"max_entries"`
	TTLSeconds map[string]int `yaml:"ttl_seconds"` // per request kind
}

type RateLimitConfig struct {
	RequestsPerMinute int            `yaml:"requests_per_minute"`
	PerKindPerMinute  map[string]int `yaml:"per_kind_per_minute"`
	WaitTimeoutMS     int            `yaml:"wait_timeout_ms"`
}

type PrefetchConfig struct {
	MaxPerMove int `yaml:"max_per_move"`
	RadiusSteps int `yaml:"radius_steps"`
}

// AutosaveConfig controls the periodic reduced-fidelity emergency save each
// session writes in the background, independent of any player-triggered
// manual save.
type AutosaveConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

type LoggingConfig struct {
	Level          string `yaml:"level"`
	ConsoleEnabled bool   `yaml:"console_enabled"`
	ConsoleFormat  string `yaml:"console_format"`
	FileEnabled    bool   `yaml:"file_enabled"`
	FilePath       string `yaml:"file_path"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
}
