// Package scheduler orders a task set so that every dependency runs before
// its dependents. Among tasks that are ready at the same time it prefers the
// earliest due date, then the largest effort estimate, then input order, so
// the same input always yields the same order.
package scheduler
