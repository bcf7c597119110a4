// Package output renders catalog data for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/imgcatalog/backend/internal/client"
	"github.com/imgcatalog/backend/internal/models"
)

// JSON prints v as indented JSON.
func JSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func CategoryTable(w io.Writer, categories []models.Category) {
	if len(categories) == 0 {
		fmt.Fprintln(w, "No categories found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tMODIFIED")
	for _, c := range categories {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Title, RelativeTime(c.UpdatedAt))
	}
	tw.Flush()
}

// CategoryDetail prints a category followed by its products.
func CategoryDetail(w io.Writer, c models.Category) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", c.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", c.Title)
	fmt.Fprintf(tw, "Products:\t%d\n", len(c.Products))
	fmt.Fprintf(tw, "Created:\t%s\n", c.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(tw, "Modified:\t%s\n", c.UpdatedAt.Format(time.RFC3339))
	tw.Flush()

	if len(c.Products) > 0 {
		fmt.Fprintln(w)
		ProductTable(w, c.Products)
	}
}

func ProductTable(w io.Writer, products []models.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tCATEGORY\tIMAGE")
	for _, p := range products {
		category := fmt.Sprintf("#%d", p.CategoryID)
		if p.Category != nil {
			category = p.Category.Title
		}
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\t%s\n", p.ID, p.Title, p.Price, category, p.ImageURL)
	}
	tw.Flush()
}

func UserTable(w io.Writer, users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPROFILE IMAGE")
	for _, u := range users {
		image := "-"
		if u.ProfileImage != nil {
			image = *u.ProfileImage
		}
		fmt.Fprintf(tw, "%d\t%s %s\t%s\t%s\n", u.ID, u.FirstName, u.LastName, u.Email, image)
	}
	tw.Flush()
}

func UploadDetail(w io.Writer, result client.UploadResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File:\t%s\n", result.FileName)
	fmt.Fprintf(tw, "URL:\t%s\n", result.FileURL)
	fmt.Fprintf(tw, "Size:\t%s\n", FormatSize(result.FileSize))
	tw.Flush()
}

// FormatSize converts bytes to a human-readable string.
func FormatSize(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// RelativeTime formats a timestamp relative to now (e.g. "2h ago", "3d ago").
func RelativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
