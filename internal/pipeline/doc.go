// Package pipeline connects broker reception to storage.
//
// The Coordinator owns a bounded in-process queue between the MQTT
// message handler and a pool of persistence workers. Backpressure is
// the queue bound: when the queue is full, Handle blocks, which stalls
// the ordered broker dispatch loop rather than buffering without limit.
//
// Shutdown is a drain: cancelling the Run context closes the intake,
// queued messages are classified and written, then Run returns.
package pipeline
