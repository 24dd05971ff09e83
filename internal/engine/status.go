package engine

import "fmt"

// Status reports engine availability for the check command.
type Status struct {
	Name      string
	Command   string
	Source    Source
	Available bool
	Detail    string
}

// Check resolves the engine and summarises the result without failing.
func (l Locator) Check(explicit string) Status {
	status := Status{Name: "REAPER"}
	res, err := l.Resolve(explicit)
	if err != nil {
		status.Command = explicit
		if status.Command == "" {
			status.Command = SearchName
		}
		status.Detail = "not found on PATH or in known install locations"
		return status
	}
	status.Command = res.Path
	status.Source = res.Source
	status.Available = true
	if res.Rejected != "" {
		status.Detail = fmt.Sprintf("configured %q unusable; using %s", res.Rejected, res.Source)
	}
	return status
}
