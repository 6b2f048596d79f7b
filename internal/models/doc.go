// Package models defines the domain records for the daycare backend.
//
// # Domains
//
//   - Employees: staff, time clock entries, pay stubs, time off, schedules,
//     training, schedule requests, salaried allocations, notifications
//   - Families: parent accounts with their children and progress reports
//   - Food: CACFP meal counts, inventory, menu items, weekly menus
//   - Lessons: curriculum lesson plans (including AI remixes)
//   - News: center announcements
//   - Tours: guided-tour progress per tour id
//
// # Conventions
//
// Every record embeds Meta, which carries the id and timestamps assigned by the
// storage layer. Relationships are id strings, never pointers. Records are
// serialised as JSON with camelCase field names.
package models
