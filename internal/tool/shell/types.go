package shell

import "github.com/Cyclone1070/warden/internal/security"

// ShellInput is a command line run through sh -c.
type ShellInput struct {
	Command        string   `json:"command"`
	WorkingDir     string   `json:"working_dir,omitempty"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty"`
	EnvFiles       []string `json:"env_files,omitempty"`
}

func (r *ShellInput) CommandLine() string { return r.Command }

// AllowScope narrows a "proceed always" grant to the program being run.
func (r *ShellInput) AllowScope() string { return security.BaseCommand(r.Command) }

func (r *ShellInput) TargetPaths() []string {
	paths := make([]string, 0, len(r.EnvFiles)+1)
	if r.WorkingDir != "" {
		paths = append(paths, r.WorkingDir)
	}
	return append(paths, r.EnvFiles...)
}

func (r *ShellInput) SetTargetPaths(paths []string) {
	if r.WorkingDir != "" {
		r.WorkingDir, paths = paths[0], paths[1:]
	}
	r.EnvFiles = append([]string(nil), paths...)
}

func (r *ShellInput) String() string {
	if r.WorkingDir == "" {
		return r.Command
	}
	return r.Command + " (in " + r.WorkingDir + ")"
}
