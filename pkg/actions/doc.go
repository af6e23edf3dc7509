// Package actions holds the side-effecting handlers behind the executor:
// the application launcher, the system task handler and the file creation handler.
//
// Every handler reports its outcome as a status string. Failures never escape as
// errors; they are logged and described in the returned status.
package actions
