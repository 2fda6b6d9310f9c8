package engine

// ResourceLimit describes hard limits applied to one sandboxed process.
type ResourceLimit struct {
	CPUTimeMs      int64 `yaml:"cpuTimeMs" json:"cpu_time_ms"`
	AddressSpaceMB int64 `yaml:"addressSpaceMB" json:"address_space_mb"`
	OutputMB       int64 `yaml:"outputMB" json:"output_mb"`
	PIDs           int64 `yaml:"pids" json:"pids"`
}

// Config holds sandbox engine settings. With an empty HelperPath the engine
// execs the program directly; the isolation switches then have no effect.
type Config struct {
	HelperPath           string `yaml:"helperPath"`
	SeccompProfile       string `yaml:"seccompProfile"`
	EnableSeccomp        bool   `yaml:"enableSeccomp"`
	EnableChroot         bool   `yaml:"enableChroot"`
	DisableNetwork       bool   `yaml:"disableNetwork"`
	SandboxUID           int    `yaml:"sandboxUID"`
	SandboxGID           int    `yaml:"sandboxGID"`
	StdoutStderrMaxBytes int64  `yaml:"stdoutStderrMaxBytes"`
}

// DefaultLimits returns the per-child resource ceilings applied when the
// caller does not override them. The CPU cap sits above the 5s wall cap so
// a busy-looping child is reaped by the external timeout, not by SIGXCPU.
func DefaultLimits() ResourceLimit {
	return ResourceLimit{
		CPUTimeMs:      6000,
		AddressSpaceMB: 512,
		OutputMB:       16,
		PIDs:           64,
	}
}
