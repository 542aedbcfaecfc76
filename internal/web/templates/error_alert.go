// Package templates renders the HTML fragments returned to HTMX clients.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// ErrorAlert renders a dismissible error box swapped into the upload form.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="alert alert-error" role="alert"><p class="alert-message">`); err != nil {
			return err
		}
		if _, err := io.WriteString(w, templ.EscapeString(message)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</p>`); err != nil {
			return err
		}
		if action != "" {
			if _, err := io.WriteString(w, `<p class="alert-action">`+templ.EscapeString(action)+`</p>`); err != nil {
				return err
			}
		}
		if code != "" {
			if _, err := io.WriteString(w, `<p class="alert-code">Code: `+templ.EscapeString(code)+`</p>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// ProcessResult renders the two download links after a successful upload.
func ProcessResult(cleanedURL, excludedURL string, kept, excluded int, expiresIn string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<div class="result" role="status">`+
				`<p>Processed: `+templ.EscapeString(strconv.Itoa(kept))+` rows kept, `+
				templ.EscapeString(strconv.Itoa(excluded))+` rows excluded.</p>`+
				`<a class="download" href="`+templ.EscapeString(cleanedURL)+`" download>Download cleaned file</a> `+
				`<a class="download" href="`+templ.EscapeString(excludedURL)+`" download>Download excluded items</a>`+
				`<p class="expires">Links expire in `+templ.EscapeString(expiresIn)+`.</p>`+
				`</div>`)
		return err
	})
}
