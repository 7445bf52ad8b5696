// Package metro finds minimum-time routes between (station, line) states of
// a multi-line transit network using A* search.
//
// It exposes two main entry points on an Engine built with New:
//
//   - Run: search to completion and get a Result.
//   - Step: advance one expansion at a time to drive UIs or debugging tools.
//
// Moving between adjacent stations on the same line costs the real travel
// time; changing line at a station costs a fixed transfer penalty. The
// heuristic is the straight-line time to the goal station plus one penalty
// when the goal is on another line. The network itself lives in package
// network; Baseline offers a Dijkstra reference over the same moves.
package metro
