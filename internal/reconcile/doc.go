// Package reconcile compares a user's Letterboxd state against the local
// media inventory.
//
// Reconcile splits the watchlist into records already present in the library
// and records still missing, and surfaces library entries the user has
// neither watched nor listed. Intersect combines two users' results into the
// shared watchlist they could watch together. The engine performs no I/O;
// callers hand it fully loaded datasets and inventories.
package reconcile
