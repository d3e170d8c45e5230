// Package cli is the interactive userdesk terminal client.
//
// The client behaves like a small router. Its routes are /login, /register,
// /logout and the gated directory at /. Commands typed into the REPL either
// navigate or run a directory action. Directory actions need a session; when
// there is none the client goes to /login first.
//
// Commands:
//
//	help, login, register, logout, whoami
//	list | l, view <user>, add, update <user>, delete <user>
//	exit | quit
//
// The REPL is started by App.Run and blocks until the user exits.
package cli
