// Command reelsync reconciles Letterboxd watchlists against a local media
// library and reports what is ready to watch, what is missing, and what is
// sitting in the library undiscovered.
package main
