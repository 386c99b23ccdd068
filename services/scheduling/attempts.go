package scheduling

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"bookingbridge/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Target pins where created jobs land and how amounts are shown in them.
// All fields come from configuration.
type Target struct {
	InstanceIDs []int64
	GroupID     int64
	Currency    string // ISO code, e.g. "gbp"
}

// JobAttempt is one candidate request shape for creating a job.
type JobAttempt struct {
	Name        string
	Description string
	Method      string
	Path        string
	Build       func(b models.ConfirmedBooking, t Target, now time.Time) any
	Succeeded   func(status int, contentType string) bool
}

// JSONSuccess accepts any 2xx answered with a JSON body.
func JSONSuccess(status int, contentType string) bool {
	return status >= 200 && status < 300 && isJSON(contentType)
}

// DefaultAttempts is the probing order used when nothing else is configured.
func DefaultAttempts() []JobAttempt {
	return []JobAttempt{
		{
			Name:        "jobs-v1-full",
			Description: "Complete job format with all required fields",
			Method:      http.MethodPost,
			Path:        "/jobs/v1/jobs",
			Build:       buildFullJob,
			Succeeded:   JSONSuccess,
		},
		{
			Name:        "jobs-v1-simple",
			Description: "Simplified job with essential scheduling fields",
			Method:      http.MethodPost,
			Path:        "/jobs/v1/jobs",
			Build:       buildSimpleJob,
			Succeeded:   JSONSuccess,
		},
		{
			Name:        "jobs-v2",
			Description: "Jobs API v2",
			Method:      http.MethodPost,
			Path:        "/jobs/v2/jobs",
			Build:       buildV2Job,
			Succeeded:   JSONSuccess,
		},
		{
			Name:        "tasks-v1",
			Description: "Tasks endpoint instead of jobs",
			Method:      http.MethodPost,
			Path:        "/tasks/v1/tasks",
			Build:       buildTask,
			Succeeded:   JSONSuccess,
		},
	}
}

// SelectAttempts returns the default attempts named in names, in that order.
// An empty list selects all defaults.
func SelectAttempts(names []string) ([]JobAttempt, error) {
	defaults := DefaultAttempts()
	if len(names) == 0 {
		return defaults, nil
	}
	byName := make(map[string]JobAttempt, len(defaults))
	for _, a := range defaults {
		byName[a.Name] = a
	}
	selected := make([]JobAttempt, 0, len(names))
	for _, name := range names {
		a, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown job attempt %q", name)
		}
		selected = append(selected, a)
	}
	return selected, nil
}

type jobGPS struct {
	Address   string   `json:"address"`
	Longitude *float64 `json:"longitude,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
}

type jobAssign struct {
	Type     string  `json:"type"`
	UserIDs  []int64 `json:"userIds"`
	GroupIDs []int64 `json:"groupIds"`
}

type fullJob struct {
	InstanceIDs   []int64   `json:"instanceIds"`
	Title         string    `json:"title"`
	Code          string    `json:"code"`
	Description   string    `json:"description"`
	GPS           jobGPS    `json:"gps"`
	Assign        jobAssign `json:"assign"`
	Color         string    `json:"color"`
	CustomFields  []any     `json:"customFields"`
	UseParentData bool      `json:"useParentData"`
	SubJobs       []any     `json:"subJobs"`
}

type simpleJob struct {
	InstanceIDs []int64   `json:"instanceIds"`
	Title       string    `json:"title"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Assign      jobAssign `json:"assign"`
	Color       string    `json:"color"`
	GPS         jobGPS    `json:"gps"`
}

type v2Job struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Address     string `json:"address"`
}

type task struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func buildFullJob(b models.ConfirmedBooking, t Target, now time.Time) any {
	zero := 0.0
	return []fullJob{{
		InstanceIDs:  t.InstanceIDs,
		Title:        JobTitle(b),
		Code:         JobCode(now),
		Description:  fullDescription(b, t.Currency),
		GPS:          jobGPS{Address: b.ServiceAddress, Longitude: &zero, Latitude: &zero},
		Assign:       jobAssign{Type: "both", UserIDs: []int64{}, GroupIDs: []int64{t.GroupID}},
		Color:        "#4B7AC5",
		CustomFields: []any{},
		SubJobs:      []any{},
	}}
}

func buildSimpleJob(b models.ConfirmedBooking, t Target, now time.Time) any {
	return []simpleJob{{
		InstanceIDs: t.InstanceIDs,
		Title:       JobTitle(b),
		Code:        JobCode(now),
		Description: fmt.Sprintf("Customer: %s\nService: %s\nDate: %s\nAddress: %s\nTotal: %s",
			b.ClientName, serviceLabel(b.ServiceType), b.ServiceDate, b.ServiceAddress, money(t.Currency, b.TotalAmount)),
		Assign: jobAssign{Type: "both", UserIDs: []int64{}, GroupIDs: []int64{t.GroupID}},
		Color:  "#81A8CC",
		GPS:    jobGPS{Address: b.ServiceAddress},
	}}
}

func buildV2Job(b models.ConfirmedBooking, _ Target, _ time.Time) any {
	return []v2Job{{
		Title:       JobTitle(b),
		Description: "Service booking for " + b.ClientName,
		Address:     b.ServiceAddress,
	}}
}

func buildTask(b models.ConfirmedBooking, t Target, _ time.Time) any {
	return task{
		Title:       JobTitle(b),
		Description: fmt.Sprintf("Service booking for %s\nTotal: %s", b.ClientName, money(t.Currency, b.TotalAmount)),
		Status:      "open",
	}
}

// JobTitle is "<client> - <Service Type>", e.g. "Ada Lovelace - Deep Clean".
func JobTitle(b models.ConfirmedBooking) string {
	return b.ClientName + " - " + serviceLabel(b.ServiceType)
}

// JobCode is "BK" followed by the last six digits of the millisecond clock.
func JobCode(now time.Time) string {
	return fmt.Sprintf("BK%06d", now.UnixMilli()%1_000_000)
}

func serviceLabel(serviceType string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(serviceType, "-", " "))
}

func fullDescription(b models.ConfirmedBooking, currency string) string {
	booked := b.BookingTimestamp
	if ts, err := time.Parse(time.RFC3339, b.BookingTimestamp); err == nil {
		booked = ts.Format("02 Jan 2006 15:04 MST")
	}
	hours := make([]string, len(b.ServiceHours))
	for i, h := range b.ServiceHours {
		hours[i] = fmt.Sprintf("%d", h)
	}

	var sb strings.Builder
	sb.WriteString("BOOKING DETAILS\n\n")
	fmt.Fprintf(&sb, "Customer: %s\n", b.ClientName)
	fmt.Fprintf(&sb, "Email: %s\n", b.ClientEmail)
	fmt.Fprintf(&sb, "Phone: %s\n", b.ClientPhone)
	fmt.Fprintf(&sb, "Address: %s\n\n", b.ServiceAddress)
	fmt.Fprintf(&sb, "Service: %s\n", serviceLabel(b.ServiceType))
	fmt.Fprintf(&sb, "Date: %s\n", b.ServiceDate)
	fmt.Fprintf(&sb, "Hours: %s\n", strings.Join(hours, ", "))
	if b.HasNightHours {
		sb.WriteString("Includes night hours\n")
	}
	fmt.Fprintf(&sb, "Total Cost: %s\n\n", money(currency, b.TotalAmount))
	if b.BookingReference != "" {
		fmt.Fprintf(&sb, "Reference: %s\n", b.BookingReference)
	}
	fmt.Fprintf(&sb, "Notes: %s\n", b.Notes)
	fmt.Fprintf(&sb, "Booked: %s", booked)
	return sb.String()
}

var currencySymbols = map[string]string{
	"gbp": "£",
	"eur": "€",
	"usd": "$",
}

// money formats v with the currency's symbol, or its upper-case code when the
// symbol is unknown ("170.00 CHF"). An empty currency prints the bare amount.
func money(currency string, v float64) string {
	amount := fmt.Sprintf("%.2f", v)
	code := strings.ToLower(strings.TrimSpace(currency))
	if sym, ok := currencySymbols[code]; ok {
		return sym + amount
	}
	if code == "" {
		return amount
	}
	return amount + " " + strings.ToUpper(code)
}
