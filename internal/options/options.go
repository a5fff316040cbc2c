package options

const (
	// DefaultListen is the bind address used when --listen is absent.
	DefaultListen = "127.0.0.1"
	// ListenAll is the bind address used when --listen is given without a value.
	ListenAll = "0.0.0.0"
	// DefaultPort is the listen port used when --port is absent.
	DefaultPort = 8188
	// AllOrigins is the CORS origin used when --enable-cors-header is given
	// without a value.
	AllOrigins = "*"
	// DirectMLDefaultDevice is the device used when --directml is given
	// without a value.
	DirectMLDefaultDevice = -1
)

// Options is the complete set of parsed configuration values for one
// process invocation. Optional values without a default are nil when unset.
type Options struct {
	Listen                string
	Port                  int
	EnableCORSHeader      *string
	ExtraModelPathsConfig []string
	OutputDirectory       *string
	AutoLaunch            bool
	CUDADevice            *int
	DontUpcastAttention   bool
	ForceFP32             bool
	DirectML              *int

	// attention-mode group, at most one is set.
	UseSplitCrossAttention   bool
	UsePytorchCrossAttention bool

	DisableXformers bool

	// vram-mode group, at most one is set.
	HighVRAM   bool
	NormalVRAM bool
	LowVRAM    bool
	NoVRAM     bool
	CPU        bool

	DontPrintServer        bool
	QuickTestForCI         bool
	WindowsStandaloneBuild bool
}

// Defaults returns an option set with every field at its documented default.
func Defaults() Options {
	return Options{
		Listen: DefaultListen,
		Port:   DefaultPort,
	}
}

// AttentionMode returns the name of the selected attention-mode option, or
// an empty string when none is selected.
func (o *Options) AttentionMode() string {
	return selected(o, attentionGroup)
}

// VRAMMode returns the name of the selected vram-mode option, or an empty
// string when none is selected.
func (o *Options) VRAMMode() string {
	return selected(o, vramGroup)
}

// Clone returns a deep copy of o.
func (o *Options) Clone() *Options {
	c := *o
	c.EnableCORSHeader = clonePtr(o.EnableCORSHeader)
	c.OutputDirectory = clonePtr(o.OutputDirectory)
	c.CUDADevice = clonePtr(o.CUDADevice)
	c.DirectML = clonePtr(o.DirectML)
	if o.ExtraModelPathsConfig != nil {
		c.ExtraModelPathsConfig = append([]string{}, o.ExtraModelPathsConfig...)
	}
	return &c
}

// MarshalJSON encodes o as the flat document written to disk.
func (o Options) MarshalJSON() ([]byte, error) {
	return o.Encode()
}

// UnmarshalJSON decodes a flat document into o. Unknown keys are ignored.
func (o *Options) UnmarshalJSON(data []byte) error {
	decoded, _, err := Decode(data)
	if err != nil {
		return err
	}
	*o = *decoded
	return nil
}

// finish validates the exclusive groups and applies derived defaults. It is
// run once on every freshly constructed option set.
func finish(o *Options) (*Options, error) {
	if err := validateGroups(o); err != nil {
		return nil, err
	}
	if o.WindowsStandaloneBuild {
		o.AutoLaunch = true
	}
	return o, nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
