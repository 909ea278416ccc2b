package timesheet

import (
	"fmt"
	"strings"

	errors "github.com/frahmantamala/custom-timesheet/internal"
)

type Field string

const (
	FieldProject       Field = "project"
	FieldTask          Field = "task"
	FieldStartDateTime Field = "start_date_time"
	FieldEndDateTime   Field = "end_date_time"
)

type BannerLevel string

const (
	BannerWarning BannerLevel = "warning"
	BannerError   BannerLevel = "error"
	BannerSuccess BannerLevel = "success"
)

type Banner struct {
	Level BannerLevel `json:"level"`
	Color string      `json:"color"`
	Text  string      `json:"text"`
}

// Form holds the editable entry table of one timesheet and keeps the
// validation state in step with every mutation. It never persists anything.
type Form struct {
	entries []Entry
	result  Result
}

func NewForm(entries ...Entry) *Form {
	f := &Form{entries: append([]Entry(nil), entries...)}
	f.revalidate()
	return f
}

// AddRow appends an empty row and returns its 1-based number.
func (f *Form) AddRow() int {
	f.entries = append(f.entries, Entry{})
	f.revalidate()
	return len(f.entries)
}

func (f *Form) RemoveRow(row int) error {
	if err := f.checkRow(row); err != nil {
		return err
	}
	f.entries = append(f.entries[:row-1], f.entries[row:]...)
	f.revalidate()
	return nil
}

func (f *Form) ClearTable() {
	f.entries = nil
	f.revalidate()
}

// SetField updates one field of a row. An unparseable date leaves the field
// empty so the row is reported as missing it.
func (f *Form) SetField(row int, field Field, value string) error {
	if err := f.checkRow(row); err != nil {
		return err
	}
	defer f.revalidate()

	e := &f.entries[row-1]
	switch field {
	case FieldProject:
		e.Project = value
	case FieldTask:
		e.Task = value
	case FieldStartDateTime, FieldEndDateTime:
		dt, err := ParseDateTime(value)
		if field == FieldStartDateTime {
			e.StartDateTime = dt
		} else {
			e.EndDateTime = dt
		}
		if err != nil {
			return errors.NewValidationFieldError(string(field), err.Error(), errors.ErrCodeInvalidDateTime)
		}
	default:
		return errors.NewValidationFieldError(string(field), fmt.Sprintf("unknown field %q", field), errors.ErrCodeUnknownField)
	}
	return nil
}

func (f *Form) Entries() []Entry {
	return append([]Entry(nil), f.entries...)
}

func (f *Form) Result() Result {
	return f.result
}

func (f *Form) SaveEnabled() bool {
	return f.result.Valid
}

func (f *Form) Banner() Banner {
	switch {
	case f.result.Valid:
		return Banner{Level: BannerSuccess, Color: "green", Text: f.result.Message()}
	case f.result.Row == 0:
		return Banner{Level: BannerWarning, Color: "orange", Text: f.result.Message()}
	default:
		return Banner{Level: BannerError, Color: "red", Text: f.result.Message()}
	}
}

// BeforeSave re-runs validation and blocks the save when the table is invalid.
func (f *Form) BeforeSave() error {
	f.revalidate()
	if f.result.Valid {
		return nil
	}
	return errors.NewValidationError(f.result.Message(), errors.ErrCodeTimesheetInvalid).
		WithDetails(f.result)
}

func (f *Form) revalidate() {
	f.result = Validate(f.entries)
}

func (f *Form) checkRow(row int) error {
	if row < 1 || row > len(f.entries) {
		return errors.NewValidationFieldError("row", fmt.Sprintf("row %d does not exist", row), errors.ErrCodeValidationFailed)
	}
	return nil
}

// normalizeEntries trims reference fields in place.
func normalizeEntries(entries []Entry) {
	for i := range entries {
		entries[i].Project = strings.TrimSpace(entries[i].Project)
		entries[i].Task = strings.TrimSpace(entries[i].Task)
	}
}
