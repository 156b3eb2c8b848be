// Package cli is the feedback portal's interactive terminal client.
//
// App wires configuration, the local session store, the HTTP client, the
// session, the router and the page controllers behind a REPL. The prompt
// shows the current route, user and connectivity mode; the available
// commands depend on the route (see runREPL and App.Execute). A background
// watcher probes the backend's health endpoint.
//
// Every command error goes through session.Session.Observe. When it reports
// that the session expired, a single notice is printed and the router is
// sent to /login.
package cli
