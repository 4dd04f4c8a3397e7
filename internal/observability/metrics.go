// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// LoginAttempts counts login attempts by terminal outcome.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scribe_auth_login_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})

	// Signups counts signup attempts by result.
	Signups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scribe_auth_signup_total",
		Help: "Signup attempts by result",
	}, []string{"result"})

	// PasswordHashDuration records how long password hashing and verification take.
	PasswordHashDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scribe_password_hash_duration_seconds",
		Help:    "Duration of password hash and verify operations",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scribe_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

const queryStartKey = "scribe:query_start"

// DatabaseMetrics records query latency through GORM callbacks.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// Register installs before/after callbacks on every GORM processor.
func (m *DatabaseMetrics) Register() error {
	cb := m.db.Callback()
	hooks := []struct {
		op     string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
	}

	for _, h := range hooks {
		op := h.op
		if err := h.before("metrics:before_"+op, startTimer); err != nil {
			return err
		}
		if err := h.after("metrics:after_"+op, func(tx *gorm.DB) {
			m.observe(op, tx)
		}); err != nil {
			return err
		}
	}
	return nil
}

func startTimer(tx *gorm.DB) {
	tx.InstanceSet(queryStartKey, time.Now())
}

func (m *DatabaseMetrics) observe(operation string, tx *gorm.DB) {
	v, ok := tx.InstanceGet(queryStartKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}
	table := "unknown"
	if tx.Statement != nil && tx.Statement.Table != "" {
		table = tx.Statement.Table
	}
	m.ObserveQuery(operation, table, start)
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackHash returns a function that records hashing latency when called (e.g. defer).
func TrackHash(operation string) func() {
	start := time.Now()
	return func() {
		PasswordHashDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
