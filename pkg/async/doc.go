// Package async runs functions concurrently and collects their outcomes.
//
// Exec starts a function and returns an ExecFuture. Panics are recovered into
// a *PanicError so one failing task never brings down its siblings:
//
//	futures := make([]*async.ExecFuture, 0, len(tasks))
//	for _, task := range tasks {
//		futures = append(futures, async.Exec(ctx, task, run))
//	}
//
//	for i, err := range async.Settle(futures...) {
//		if errors.Is(err, async.ErrPanic) {
//			log.Error("task panicked", "task", tasks[i])
//		}
//	}
//
// ExecAll returns the first error, ExecAny the first completed future.
package async
