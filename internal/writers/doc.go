// Package writers owns the output destination of a run.
//
// Design:
//   • Exactly one goroutine (Sink) or the calling goroutine (Direct) touches a
//     BatchWriter; producers only ever see the Queue.
//   • A bounded channel between producers and the Sink is the only
//     backpressure point.
//   • Formats: Arrow IPC file (ipc) and the JSON plotting report (report,
//     wire schema in pkg/api).
package writers
