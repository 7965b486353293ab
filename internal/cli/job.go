package cli

import (
	"context"
	"fmt"
	"path"
	"strings"
)

const scriptExt = ".ksh"

// inputError is a rejected answer; its text is shown to the user as is.
type inputError string

func (e inputError) Error() string { return string(e) }

const (
	errTitleEmpty     inputError = "Title cannot be empty."
	errDirEmpty       inputError = "Directory name cannot be empty."
	errDirSpaces      inputError = "Please don't include any spaces in the directory name."
	errScriptEmpty    inputError = "Name cannot be empty."
	errScriptDots     inputError = "Name cannot have more than 1 dot in name."
	errScriptSpaces   inputError = "Name cannot contain spaces."
	errCommandEmpty   inputError = "Command cannot be empty."
	errCommandNewline inputError = "Command must fit on one line."
)

// commentFor turns a title into the comment written above the job.
func commentFor(title string) string {
	return "====== " + title
}

func normalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", errTitleEmpty
	}
	return title, nil
}

// normalizeDirectory accepts a single directory name below the bin dir.
func normalizeDirectory(raw string) (string, error) {
	dir := strings.TrimSpace(raw)
	if strings.ContainsAny(dir, " \t") {
		return "", errDirSpaces
	}
	dir = strings.TrimLeft(dir, "/")
	if dir == "" {
		return "", errDirEmpty
	}
	return dir, nil
}

// normalizeScript forces the script extension on a name with at most one dot.
func normalizeScript(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if strings.ContainsAny(name, " \t") {
		return "", errScriptSpaces
	}
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return "", errScriptDots
	}
	if parts[0] == "" {
		return "", errScriptEmpty
	}
	return parts[0] + scriptExt, nil
}

func normalizeCommand(raw string) (string, error) {
	cmd := strings.TrimSpace(raw)
	if cmd == "" {
		return "", errCommandEmpty
	}
	if strings.ContainsAny(cmd, "\r\n") {
		return "", errCommandNewline
	}
	return cmd, nil
}

// logRedirect appends output to a per-host, per-day log file named after stem.
func logRedirect(logDir, stem string) string {
	file := path.Join(logDir, stem+"_`hostname`_`date +%Y%m%d`.log")
	return " >> " + file + " 2>&1"
}

// commandStem names the log file of a raw command after its executable.
func commandStem(cmd string) string {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return "job"
	}
	base := path.Base(fields[0])
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." || base == "/" {
		return "job"
	}
	return base
}

// askUntil re-asks question until normalize accepts the answer, telling the
// user why each rejected answer failed.
func (r *Runner) askUntil(ctx context.Context, question string, normalize func(string) (string, error)) (string, error) {
	for {
		raw, err := r.console.Ask(ctx, question)
		if err != nil {
			return "", err
		}
		value, err := normalize(raw)
		if err == nil {
			return value, nil
		}
		r.console.Say(err.Error())
	}
}

func (r *Runner) askTitle(ctx context.Context) (string, error) {
	return r.askUntil(ctx, "Enter the title you would like to be at the top of your cron job i.e. #====== <title>:", normalizeTitle)
}

// askCommand asks for a raw command, or for a script below the bin dir when
// one is configured, and adds the log redirection when a log dir is set.
func (r *Runner) askCommand(ctx context.Context) (string, error) {
	var cmd, stem string
	if r.binDir == "" {
		raw, err := r.askUntil(ctx, "Enter the command this job should run:", normalizeCommand)
		if err != nil {
			return "", err
		}
		cmd, stem = raw, commandStem(raw)
	} else {
		dir, err := r.askUntil(ctx, "Please enter the directory under "+r.binDir+" that your script exists in (no slashes or path, just the name):", normalizeDirectory)
		if err != nil {
			return "", err
		}
		r.console.Say(fmt.Sprintf("Directory is %s/%s", r.binDir, dir))
		r.console.Say("")

		script, err := r.askUntil(ctx, "Enter name of your "+scriptExt+" file:", normalizeScript)
		if err != nil {
			return "", err
		}
		r.console.Say("Script is: " + script)
		r.console.Say("")

		cmd = path.Join(r.binDir, dir, script)
		stem = strings.TrimSuffix(script, scriptExt)
	}
	if r.logDir != "" {
		cmd += logRedirect(r.logDir, stem)
	}
	return cmd, nil
}
