package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Formatter formats results for output.
type Formatter interface {
	FormatUpload(w io.Writer, results []UploadResult) error
	FormatDownload(w io.Writer, result *DownloadResult) error
	FormatDelete(w io.Writer, results []DeleteResult) error
	FormatList(w io.Writer, result *ListResult) error
	FormatError(w io.Writer, err error) error
	FormatProfiles(w io.Writer, profiles []ProfileSummary) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatUpload formats upload results as human-readable text.
func (f *HumanFormatter) FormatUpload(w io.Writer, results []UploadResult) error {
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, "Error: %s - %v\n", r.LocalPath, r.Err)
			continue
		}
		if f.Quiet {
			_, _ = fmt.Fprintln(w, r.File.ID)
			continue
		}
		_, _ = fmt.Fprintf(w, "Uploaded: %s (%s)\n", r.LocalPath, formatSize(r.File.Size))
		_, _ = fmt.Fprintf(w, "  ID: %s\n", r.File.ID)
	}
	return nil
}

// FormatDownload formats download result as human-readable text.
func (f *HumanFormatter) FormatDownload(w io.Writer, result *DownloadResult) error {
	if !f.Quiet {
		if result.LocalPath == "-" {
			_, _ = fmt.Fprintf(w, "Downloaded: %s (%s)\n", result.Filename, formatSize(result.Size))
		} else {
			_, _ = fmt.Fprintf(w, "Downloaded: %s -> %s (%s)\n", result.Filename, result.LocalPath, formatSize(result.Size))
		}
	}
	return nil
}

// FormatDelete formats delete results as human-readable text.
func (f *HumanFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, "Error: %s - %v\n", r.ID, r.Err)
			continue
		}
		if !f.Quiet {
			_, _ = fmt.Fprintf(w, "Deleted: %s\n", r.ID)
		}
	}
	return nil
}

// FormatList formats list results as human-readable text.
func (f *HumanFormatter) FormatList(w io.Writer, result *ListResult) error {
	if len(result.Items) == 0 {
		_, _ = fmt.Fprintln(w, "No files found")
		return nil
	}

	if f.Quiet {
		for i := range result.Items {
			_, _ = fmt.Fprintln(w, result.Items[i].ID)
		}
		return nil
	}

	// Calculate column widths
	maxNameLen := 8 // "FILENAME"
	for i := range result.Items {
		if len(result.Items[i].Filename) > maxNameLen {
			maxNameLen = len(result.Items[i].Filename)
		}
	}
	if maxNameLen > 40 {
		maxNameLen = 40
	}

	// Print header
	_, _ = fmt.Fprintf(w, "%-36s  %-*s  %10s  %-19s  %s\n", "ID", maxNameLen, "FILENAME", "SIZE", "UPLOADED", "OWNER")
	_, _ = fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
		strings.Repeat("-", 36), strings.Repeat("-", maxNameLen), strings.Repeat("-", 10), strings.Repeat("-", 19), strings.Repeat("-", 5))

	// Print items
	for i := range result.Items {
		item := &result.Items[i]
		name := item.Filename
		if len(name) > maxNameLen {
			name = name[:maxNameLen-3] + "..."
		}
		_, _ = fmt.Fprintf(w, "%-36s  %-*s  %10s  %-19s  %s\n",
			item.ID,
			maxNameLen,
			name,
			formatSize(item.Size),
			item.UploadDate.Format("2006-01-02 15:04:05"),
			item.OwnerEmail,
		)
	}

	// Print summary
	_, _ = fmt.Fprintf(w, "\n%d file(s) (%s total)\n", len(result.Items), formatSize(result.TotalSize()))

	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatUpload formats upload results as JSON.
func (f *JSONFormatter) FormatUpload(w io.Writer, results []UploadResult) error {
	// Convert errors to strings for JSON output
	type jsonResult struct {
		LocalPath string    `json:"local_path"`
		File      *FileInfo `json:"file,omitempty"`
		Error     string    `json:"error,omitempty"`
	}

	output := make([]jsonResult, len(results))
	for i := range results {
		r := &results[i]
		jr := jsonResult{LocalPath: r.LocalPath}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		} else {
			jr.File = &r.File
		}
		output[i] = jr
	}

	return writeJSON(w, output)
}

// FormatDownload formats download result as JSON.
func (f *JSONFormatter) FormatDownload(w io.Writer, result *DownloadResult) error {
	return writeJSON(w, result)
}

// FormatDelete formats delete results as JSON.
func (f *JSONFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	// Convert errors to strings for JSON output
	type jsonResult struct {
		ID      string `json:"id"`
		Deleted bool   `json:"deleted"`
		Error   string `json:"error,omitempty"`
	}

	output := struct {
		Results []jsonResult `json:"results"`
	}{
		Results: make([]jsonResult, len(results)),
	}

	for i, r := range results {
		jr := jsonResult{
			ID:      r.ID,
			Deleted: r.Deleted,
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		output.Results[i] = jr
	}

	return writeJSON(w, output)
}

// FormatList formats list results as JSON.
func (f *JSONFormatter) FormatList(w io.Writer, result *ListResult) error {
	return writeJSON(w, result)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.1f TB", float64(bytes)/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// ProfileSummary is the displayable form of a saved profile.
type ProfileSummary struct {
	Name      string    `json:"name"`
	Endpoint  string    `json:"endpoint"`
	Token     string    `json:"token"`
	Subject   string    `json:"subject,omitempty"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
	Expired   bool      `json:"expired,omitempty"`
	Current   bool      `json:"current"`
}

// FormatProfiles prints one line per profile with the current one starred.
func (f *HumanFormatter) FormatProfiles(w io.Writer, profiles []ProfileSummary) error {
	if len(profiles) == 0 {
		_, _ = fmt.Fprintln(w, "No profiles saved. Run 'filekeep-cli configure set <name>'.")
		return nil
	}

	for _, p := range profiles {
		marker := " "
		if p.Current {
			marker = "*"
		}

		who := p.Subject
		if p.Email != "" {
			who += " <" + p.Email + ">"
		}
		if who == "" {
			who = "-"
		}

		status := ""
		if p.Expired {
			status = "  EXPIRED"
		}

		_, _ = fmt.Fprintf(w, "%s %-12s %s
", marker, p.Name, p.Endpoint)
		_, _ = fmt.Fprintf(w, "    user:  %s
", who)
		_, _ = fmt.Fprintf(w, "    token: %s%s\n", p.Token, status)
	}
	return nil
}

// FormatProfiles writes the summaries as a JSON array.
func (f *JSONFormatter) FormatProfiles(w io.Writer, profiles []ProfileSummary) error {
	if profiles == nil {
		profiles = []ProfileSummary{}
	}
	return writeJSON(w, profiles)
}
