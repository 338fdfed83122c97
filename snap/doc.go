// Package snap implements point-to-network snapping: given a
// geographic point and a search box, find the nearest edge an
// application-supplied predicate accepts, and the offset along that edge
// closest to the point, expressed as a u16 fraction of the edge's length.
//
// Distance is computed with an equirectangular approximation (meters per
// degree scaled by cos(latitude)) rather than full great-circle math — the
// search boxes this runs over are tile-sized, where the approximation's
// error is well under the 1-meter early-stop tolerance snapping already
// tolerates.
package snap
