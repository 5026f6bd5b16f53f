package style

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/pimfix/pkg/errors"
)

// RenderTable renders rows under a header row as an aligned table.
func RenderTable(header []string, rows [][]string) (string, error) {
	data := make(pterm.TableData, 0, len(rows)+1)
	data = append(data, header)
	data = append(data, rows...)
	return pterm.DefaultTable.
		WithHasHeader().
		WithData(data).
		Srender()
}

// RenderError renders an error message, showing the code of coded errors
func RenderError(err error) string {
	if err == nil {
		return ""
	}

	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		return fmt.Sprintf("%s Error [%s]: %s",
			ErrorStyle.Render(ErrorIndicator),
			code,
			err.Error())
	}
	return fmt.Sprintf("%s %s", ErrorStyle.Render(ErrorIndicator), err.Error())
}

// RenderStatus renders a one-line summary prefixed with a status indicator.
func RenderStatus(ok bool, format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if ok {
		return SuccessStyle.Render(SuccessIndicator) + " " + msg
	}
	return WarningStyle.Render(WarningIndicator) + " " + msg
}
