//go:build linux

// sandbox-init is the exec helper between the judge and the judged program.
// It receives its instructions as a single JSON argument, applies resource
// limits and isolation inside the namespaces its parent created, then execs
// the program with inherited standard streams so the judge keeps the pipes.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/seccomp/libseccomp-golang"
	"golang.org/x/sys/unix"
)

type resourceLimit struct {
	CPUTimeMs      int64 `json:"cpu_time_ms"`
	AddressSpaceMB int64 `json:"address_space_mb"`
	OutputMB       int64 `json:"output_mb"`
	PIDs           int64 `json:"pids"`
}

type initRequest struct {
	WorkDir        string        `json:"work_dir"`
	Argv           []string      `json:"argv"`
	Env            []string      `json:"env"`
	Limits         resourceLimit `json:"limits"`
	UID            int           `json:"uid"`
	GID            int           `json:"gid"`
	Chroot         bool          `json:"chroot"`
	SeccompProfile string        `json:"seccomp_profile,omitempty"`
}

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) != 2 {
		return fmt.Errorf("usage: sandbox-init <request-json>")
	}
	var req initRequest
	if err := json.Unmarshal([]byte(os.Args[1]), &req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	if len(req.Argv) == 0 {
		return fmt.Errorf("command is required")
	}
	if req.WorkDir == "" {
		return fmt.Errorf("work dir is required")
	}

	if err := applyRlimits(req.Limits); err != nil {
		return err
	}

	if req.Chroot {
		if err := unix.Chroot(req.WorkDir); err != nil {
			return fmt.Errorf("chroot: %w", err)
		}
		if err := os.Chdir("/"); err != nil {
			return fmt.Errorf("chdir root: %w", err)
		}
	} else {
		if err := os.Chdir(req.WorkDir); err != nil {
			return fmt.Errorf("chdir workdir: %w", err)
		}
	}

	if err := dropPrivileges(req.GID, req.UID); err != nil {
		return err
	}

	if req.SeccompProfile != "" {
		if err := applySeccomp(req.SeccompProfile); err != nil {
			return err
		}
	}

	env := buildEnv(req.Env)
	cmdPath, err := exec.LookPath(req.Argv[0])
	if err != nil {
		return fmt.Errorf("resolve command: %w", err)
	}
	return unix.Exec(cmdPath, req.Argv, env)
}

func applyRlimits(limits resourceLimit) error {
	if limits.CPUTimeMs > 0 {
		seconds := uint64((limits.CPUTimeMs + 999) / 1000)
		if err := unix.Setrlimit(unix.RLIMIT_CPU, &unix.Rlimit{Cur: seconds, Max: seconds}); err != nil {
			return fmt.Errorf("set rlimit cpu: %w", err)
		}
	}
	if limits.AddressSpaceMB > 0 {
		bytes := uint64(limits.AddressSpaceMB * 1024 * 1024)
		if err := unix.Setrlimit(unix.RLIMIT_AS, &unix.Rlimit{Cur: bytes, Max: bytes}); err != nil {
			return fmt.Errorf("set rlimit as: %w", err)
		}
	}
	if limits.OutputMB > 0 {
		bytes := uint64(limits.OutputMB * 1024 * 1024)
		if err := unix.Setrlimit(unix.RLIMIT_FSIZE, &unix.Rlimit{Cur: bytes, Max: bytes}); err != nil {
			return fmt.Errorf("set rlimit fsize: %w", err)
		}
	}
	if limits.PIDs > 0 {
		val := uint64(limits.PIDs)
		if err := unix.Setrlimit(unix.RLIMIT_NPROC, &unix.Rlimit{Cur: val, Max: val}); err != nil {
			return fmt.Errorf("set rlimit nproc: %w", err)
		}
	}
	return nil
}

// dropPrivileges switches to the dedicated sandbox group and user. Group
// first: setuid discards the right to change groups.
func dropPrivileges(gid, uid int) error {
	if gid > 0 {
		if err := unix.Setgid(gid); err != nil {
			return fmt.Errorf("setgid: %w", err)
		}
	}
	if uid > 0 {
		if err := unix.Setuid(uid); err != nil {
			return fmt.Errorf("setuid: %w", err)
		}
	}
	return nil
}

func buildEnv(env []string) []string {
	if len(env) > 0 {
		return env
	}
	return []string{"PATH=/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"}
}

type seccompConfig struct {
	DefaultAction string `json:"defaultAction"`
	Syscalls      []struct {
		Names  []string `json:"names"`
		Action string   `json:"action"`
	} `json:"syscalls"`
}

func applySeccomp(profilePath string) error {
	data, err := os.ReadFile(profilePath)
	if err != nil {
		return fmt.Errorf("read seccomp profile: %w", err)
	}
	var cfg seccompConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse seccomp profile: %w", err)
	}
	defaultAction, err := parseSeccompAction(cfg.DefaultAction)
	if err != nil {
		return err
	}
	filter, err := seccomp.NewFilter(defaultAction)
	if err != nil {
		return fmt.Errorf("create seccomp filter: %w", err)
	}
	for _, rule := range cfg.Syscalls {
		action, err := parseSeccompAction(rule.Action)
		if err != nil {
			return err
		}
		for _, name := range rule.Names {
			call, err := seccomp.GetSyscallFromName(name)
			if err != nil {
				return fmt.Errorf("resolve syscall %s: %w", name, err)
			}
			if err := filter.AddRuleExact(call, action); err != nil {
				return fmt.Errorf("add seccomp rule: %w", err)
			}
		}
	}
	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		return fmt.Errorf("set no new privs: %w", err)
	}
	if err := filter.Load(); err != nil {
		return fmt.Errorf("load seccomp filter: %w", err)
	}
	return nil
}

func parseSeccompAction(raw string) (seccomp.ScmpAction, error) {
	switch raw {
	case "SCMP_ACT_ALLOW":
		return seccomp.ActAllow, nil
	case "SCMP_ACT_ERRNO":
		return seccomp.ActErrno, nil
	case "SCMP_ACT_KILL":
		return seccomp.ActKillThread, nil
	case "SCMP_ACT_KILL_PROCESS":
		return seccomp.ActKillProcess, nil
	default:
		return seccomp.ActInvalid, fmt.Errorf("unsupported seccomp action: %s", raw)
	}
}
