// See types.go for the capability interfaces, merge.go for the three
// per-phase merge functions, and compare.go for the three per-phase compare
// functions.
package merge
