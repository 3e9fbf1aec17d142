// Package tabletconfig owns the per-device settings the promoter can change
// on site: which stand this tablet logs attendance for, the tablet's name,
// the local server address and the admin password.
package tabletconfig

// Storage keys. They double as the column values in the sqlite store, so
// renaming one is a data migration.
const (
	KeyStandName     = "stand_name"
	KeyTabletName    = "tablet_name"
	KeyLocalBaseURL  = "local_base_url"
	KeyAdminPassword = "admin_password"
)

// Factory defaults written on first run.
const (
	DefaultStandName     = "the one"
	DefaultTabletName    = "TABLET_001"
	DefaultLocalBaseURL  = "http://192.168.0.34:8000"
	DefaultAdminPassword = "pic@brand"
)

// Config is the full settings snapshot.
type Config struct {
	StandName     string
	TabletName    string
	LocalBaseURL  string
	AdminPassword string
}
