/*
Package session owns the editor session record.

A Tracker creates the timestamped workspace folder for a fresh editor window,
remembers it through a ports.SessionStore, and answers later questions about where
generated files should go. Access to each record is serialized with reference-counted
per-key locks.
*/
package session
