// Package services contains the domain services of the fulfillment core.
//
// DeliveryPlanner and CompensationPlanner are pure: they turn an order and the
// store configuration into the exact set of side effects a transition must
// apply (stock deltas, coupon restore, ledger delta). Command handlers apply a
// plan inside a single store transaction, so a failed compensating write can
// never be masked by a successful status update.
//
// DispatchEngine wraps the dispatch broker's atomic primitives into the
// shift and assignment operations the use cases need. It holds no state of
// its own; all coordination state lives in the broker so any number of
// service instances stay consistent.
package services
