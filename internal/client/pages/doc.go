// Package pages holds the client's page controllers: Login, Signup,
// ManagerDashboard and EmployeeDashboard.
//
// A controller owns its form and view state and talks to the backend through
// client.Client. Errors are converted to local UI state at the call site
// (see Message) and also returned so the caller can pass them to
// session.Session.Observe. Controllers are safe for concurrent use; loading
// flags reject a second submission while one is outstanding.
package pages
