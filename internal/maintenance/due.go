package maintenance

import (
	"fmt"
	"slices"

	"github.com/ukydev/motomaint/internal/models"
	"github.com/ukydev/motomaint/internal/numfmt"
)

// WarningDistance is the remaining distance at or below which an upcoming
// item is flagged.
const WarningDistance = 1000

// Status classifies a record relative to the current mileage.
type Status string

const (
	StatusOverdue Status = "overdue"
	StatusDueNow  Status = "due_now"
	StatusWarning Status = "warning"
	StatusOK      Status = "ok"
)

// IsDue reports whether currentMileage has reached the record's next
// service mileage.
func IsDue(currentMileage int, r models.MaintenanceRecord) bool {
	return currentMileage >= r.NextMileage
}

// Remaining is the distance left until the record is due; negative when
// overdue.
func Remaining(currentMileage int, r models.MaintenanceRecord) int {
	return r.NextMileage - currentMileage
}

// Classify maps a remaining distance onto a Status.
func Classify(remaining int) Status {
	switch {
	case remaining < 0:
		return StatusOverdue
	case remaining == 0:
		return StatusDueNow
	case remaining <= WarningDistance:
		return StatusWarning
	default:
		return StatusOK
	}
}

// StatusText renders the label shown next to a record.
func StatusText(remaining int) string {
	switch {
	case remaining < 0:
		return fmt.Sprintf("Overdue by %s km", numfmt.FormatInt(-remaining))
	case remaining == 0:
		return "Due Now"
	default:
		return fmt.Sprintf("Due in %s km", numfmt.FormatInt(remaining))
	}
}

// Evaluation is a record together with its live due state.
type Evaluation struct {
	Record     models.MaintenanceRecord `json:"record"`
	Due        bool                     `json:"due"`
	Remaining  int                      `json:"remaining"`
	Status     Status                   `json:"status"`
	StatusText string                   `json:"statusText"`
}

// Evaluate computes the due state of r at currentMileage.
func Evaluate(currentMileage int, r models.MaintenanceRecord) Evaluation {
	remaining := Remaining(currentMileage, r)
	return Evaluation{
		Record:     r,
		Due:        IsDue(currentMileage, r),
		Remaining:  remaining,
		Status:     Classify(remaining),
		StatusText: StatusText(remaining),
	}
}

// Compare orders due items first, then by ascending remaining distance.
func Compare(a, b Evaluation) int {
	ka, kb := dueRank(a.Due), dueRank(b.Due)
	if ka != kb {
		return ka - kb
	}
	switch {
	case a.Remaining < b.Remaining:
		return -1
	case a.Remaining > b.Remaining:
		return 1
	default:
		return 0
	}
}

func dueRank(due bool) int {
	if due {
		return 0
	}
	return 1
}

// EvaluateAll evaluates records and returns them in display order. The sort
// is stable, so records with equal keys keep their stored order.
func EvaluateAll(currentMileage int, records []models.MaintenanceRecord) []Evaluation {
	out := make([]Evaluation, 0, len(records))
	for _, r := range records {
		out = append(out, Evaluate(currentMileage, r))
	}
	slices.SortStableFunc(out, Compare)
	return out
}

// DueCount counts the records that are due at currentMileage.
func DueCount(currentMileage int, records []models.MaintenanceRecord) int {
	n := 0
	for _, r := range records {
		if IsDue(currentMileage, r) {
			n++
		}
	}
	return n
}

// NextDueDistance is the smallest remaining distance among records that are
// not yet due. ok is false when every record is due or there are none.
func NextDueDistance(currentMileage int, records []models.MaintenanceRecord) (distance int, ok bool) {
	for _, r := range records {
		if IsDue(currentMileage, r) {
			continue
		}
		rem := Remaining(currentMileage, r)
		if !ok || rem < distance {
			distance, ok = rem, true
		}
	}
	return distance, ok
}
