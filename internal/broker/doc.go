// Package broker provides pub/sub fan-out for reasoning run events. A topic
// is keyed by the dispatcher's name; every event a run emits is published to
// it and any number of hooks can subscribe. Two implementations exist: Local
// for in-process delivery and NATS for crossing process boundaries.
package broker
