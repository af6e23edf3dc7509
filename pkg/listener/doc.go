// Package listener feeds utterances from several input sources into a single
// queue. A single consumer drains the queue, so submissions are executed one
// at a time in arrival order no matter how many sources are active.
package listener
