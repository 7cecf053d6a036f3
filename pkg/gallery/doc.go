// Package gallery implements a session-scoped, randomized, batched photo
// loader over a remote document store.
//
// A Session enumerates all record ids of a collection exactly once,
// shuffles them with an unbiased Fisher-Yates permutation, and then
// consumes the shuffled order in fixed-size windows. Each window is
// fetched with a bounded fan-out and joined in request order, so the
// accumulated record list is deterministic with respect to the shuffled
// order no matter which remote call resolves first.
//
// Example usage:
//
//	sess, err := gallery.New(st, gallery.DefaultConfig("photos"))
//	if err != nil {
//		return err
//	}
//	if err := sess.Start(ctx); err != nil {
//		return err
//	}
//	// Render sess.Records(); call sess.LoadNextBatch(ctx) on demand
//	// (scroll proximity, button, timer) until sess.AllLoaded().
//
// The loader guarantees:
//   - at most one window fetch in flight (overlapping triggers coalesce),
//   - no record id appears twice in the accumulated list,
//   - the cursor advances only when a whole window resolves,
//   - a failed window is discarded atomically and retried on the next
//     external trigger,
//   - exhaustion is terminal for the session.
package gallery
