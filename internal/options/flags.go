package options

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// RegisterFlags binds every option in o to a long flag on fs, using the
// current contents of o as the defaults.
func (o *Options) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Listen, "listen", o.Listen, "Specify the `IP` address to listen on. If --listen is provided without an argument, it defaults to 0.0.0.0 (listens on all).")
	fs.Lookup("listen").NoOptDefVal = ListenAll
	fs.Var(decimalInt{&o.Port}, "port", "Set the listen port.")
	fs.Var(optionalString{&o.EnableCORSHeader}, "enable-cors-header", "Enable CORS (Cross-Origin Resource Sharing) with optional `ORIGIN`, or allow all with '*'.")
	fs.Lookup("enable-cors-header").NoOptDefVal = AllOrigins
	fs.StringArrayVar(&o.ExtraModelPathsConfig, "extra-model-paths-config", o.ExtraModelPathsConfig, "Load one or more extra_model_paths.yaml files from `PATH`.")
	fs.Var(optionalString{&o.OutputDirectory}, "output-directory", "Set the output `directory`.")
	switchVar(fs, &o.AutoLaunch, "auto-launch", "Automatically launch the UI in the default browser.")
	fs.Var(optionalInt{&o.CUDADevice}, "cuda-device", "Set the id of the cuda device this instance will use (`DEVICE_ID`).")
	switchVar(fs, &o.DontUpcastAttention, "dont-upcast-attention", "Disable upcasting of attention. Can boost speed but increase the chances of black images.")
	switchVar(fs, &o.ForceFP32, "force-fp32", "Force fp32.")
	fs.Var(optionalInt{&o.DirectML}, "directml", "Use torch-directml, optionally on `DIRECTML_DEVICE`.")
	fs.Lookup("directml").NoOptDefVal = strconv.Itoa(DirectMLDefaultDevice)

	switchVar(fs, &o.UseSplitCrossAttention, "use-split-cross-attention", "Use the split cross attention optimization instead of the sub-quadratic one. Ignored when xformers is used.")
	switchVar(fs, &o.UsePytorchCrossAttention, "use-pytorch-cross-attention", "Use the new pytorch 2.0 cross attention function.")

	switchVar(fs, &o.DisableXformers, "disable-xformers", "Disable xformers.")

	switchVar(fs, &o.HighVRAM, "highvram", "Keep models in GPU memory after being used instead of unloading them to CPU memory.")
	switchVar(fs, &o.NormalVRAM, "normalvram", "Force normal vram use if lowvram gets automatically enabled.")
	switchVar(fs, &o.LowVRAM, "lowvram", "Split the unet in parts to use less vram.")
	switchVar(fs, &o.NoVRAM, "novram", "When lowvram isn't enough.")
	switchVar(fs, &o.CPU, "cpu", "Use the CPU for everything (slow).")

	switchVar(fs, &o.DontPrintServer, "dont-print-server", "Don't print server output.")
	switchVar(fs, &o.QuickTestForCI, "quick-test-for-ci", "Quick test for CI.")
	switchVar(fs, &o.WindowsStandaloneBuild, "windows-standalone-build", "Enable conveniences for the standalone windows build, like opening the page on startup.")
}

// Flags whose value may be omitted, and flags that take one or more values.
// NormalizeArgs rewrites both into the --name=value form pflag understands.
var (
	optionalValueFlags = map[string]bool{"listen": true, "enable-cors-header": true, "directml": true}
	multiValueFlags    = map[string]bool{"extra-model-paths-config": true}
)

// NormalizeArgs rewrites "--listen 1.2.3.4" into "--listen=1.2.3.4" for the
// optional-value flags, and "--extra-model-paths-config a b" into one
// "--extra-model-paths-config=" token per value. A following token is taken
// as a value unless it looks like a flag. Tokens after "--" are untouched.
func NormalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		name, ok := strings.CutPrefix(arg, "--")
		if !ok || strings.Contains(name, "=") {
			out = append(out, arg)
			continue
		}

		switch {
		case optionalValueFlags[name]:
			if i+1 < len(args) && isValueToken(args[i+1]) {
				out = append(out, arg+"="+args[i+1])
				i++
				continue
			}
		case multiValueFlags[name]:
			n := 0
			for i+1 < len(args) && isValueToken(args[i+1]) {
				out = append(out, arg+"="+args[i+1])
				i++
				n++
			}
			if n > 0 {
				continue
			}
		}
		out = append(out, arg)
	}
	return out
}

func isValueToken(s string) bool {
	if s == "-" || !strings.HasPrefix(s, "-") {
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// switchVar registers a flag that can only turn p on. An explicit value
// other than true ("--cpu=false") is rejected.
func switchVar(fs *pflag.FlagSet, p *bool, name, usage string) {
	fs.Var(switchFlag{p}, name, usage)
	fs.Lookup(name).NoOptDefVal = "true"
}

type switchFlag struct{ p *bool }

func (v switchFlag) String() string { return strconv.FormatBool(v.p != nil && *v.p) }

func (v switchFlag) Set(s string) error {
	if s != "true" {
		return fmt.Errorf("ignored explicit argument %q", s)
	}
	*v.p = true
	return nil
}

func (v switchFlag) Type() string { return "bool" }

func (v switchFlag) IsBoolFlag() bool { return true }

// decimalInt is a pflag.Value for an int that accepts base-10 digits only,
// so "010" is ten rather than octal.
type decimalInt struct{ p *int }

func (v decimalInt) String() string {
	if v.p == nil {
		return "0"
	}
	return strconv.Itoa(*v.p)
}

func (v decimalInt) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*v.p = n
	return nil
}

func (v decimalInt) Type() string { return "int" }

// optionalString is a pflag.Value for a string option that is nil until set.
type optionalString struct{ p **string }

func (v optionalString) String() string {
	if v.p == nil || *v.p == nil {
		return ""
	}
	return **v.p
}

func (v optionalString) Set(s string) error {
	*v.p = &s
	return nil
}

func (v optionalString) Type() string { return "string" }

// optionalInt is a pflag.Value for an int option that is nil until set.
type optionalInt struct{ p **int }

func (v optionalInt) String() string {
	if v.p == nil || *v.p == nil {
		return ""
	}
	return strconv.Itoa(**v.p)
}

func (v optionalInt) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*v.p = &n
	return nil
}

func (v optionalInt) Type() string { return "int" }
