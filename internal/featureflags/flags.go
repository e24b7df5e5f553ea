// Package featureflags holds the process-wide set of boolean feature toggles.
package featureflags

import (
	"os"
	"sort"
	"sync"
)

// AdminWriteEnabled gates admin mutations and is never exposed publicly.
const AdminWriteEnabled = "adminWriteEnabled"

var alwaysOn = []string{
	"booking",
	"messaging",
	"reviews",
	"userProfiles",
	"skillListing",
	"adminDashboard",
	"systemReports",
}

var alwaysOff = []string{
	"communityEvents",
	"certifications",
	"orgTools",
	"dataProducts",
	"advancedAnalytics",
	"realTimeChat",
	"instantPayouts",
}

// Registry is a concurrency-safe flag set. Updates live in memory only.
type Registry struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// FromEnv builds the registry from environment lookups. env is the runtime
// environment name (development, production, ...).
func FromEnv(getenv func(string) string, env string) *Registry {
	if getenv == nil {
		getenv = os.Getenv
	}
	isTrue := func(key string) bool { return getenv(key) == "true" }

	flags := make(map[string]bool, len(alwaysOn)+len(alwaysOff)+9)
	for _, name := range alwaysOn {
		flags[name] = true
	}
	for _, name := range alwaysOff {
		flags[name] = false
	}

	flags[AdminWriteEnabled] = isTrue("ADMIN_WRITE_ENABLED")
	flags["aiRecommendations"] = isTrue("FEATURE_AI_RECOMMENDATIONS") || env == "development"
	flags["mobileApp"] = isTrue("FEATURE_MOBILE_APP")
	flags["darkMode"] = isTrue("FEATURE_DARK_MODE")
	flags["internationalSupport"] = isTrue("FEATURE_INTERNATIONAL_SUPPORT")
	flags["oddJobs"] = getenv("FEATURE_ODD_JOBS") != "false"
	flags["oddJobsHourly"] = isTrue("FEATURE_ODD_JOBS_HOURLY")
	flags["oddJobsMaterials"] = isTrue("FEATURE_ODD_JOBS_MATERIALS")
	flags["backgroundChecks"] = isTrue("FEATURE_BACKGROUND_CHECKS")

	return &Registry{flags: flags}
}

// IsEnabled reports the flag value; unknown flags are disabled.
func (r *Registry) IsEnabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.flags[name]
}

// Has reports whether name is a known flag.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.flags[name]
	return ok
}

// All returns a snapshot of every flag.
func (r *Registry) All() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]bool, len(r.flags))
	for k, v := range r.flags {
		out[k] = v
	}
	return out
}

// Public returns every flag safe to show unauthenticated clients.
func (r *Registry) Public() map[string]bool {
	out := r.All()
	delete(out, AdminWriteEnabled)
	return out
}

// Update sets a known flag and reports whether it existed.
func (r *Registry) Update(name string, enabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.flags[name]; !ok {
		return false
	}
	r.flags[name] = enabled
	return true
}

// Names lists flag names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.flags))
	for k := range r.flags {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
