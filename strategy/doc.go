// Package strategy provides built-in successor-selection strategies.
//
// When a party owner leaves and members remain, a SuccessorStrategy elects
// the next owner. Three implementations are provided:
//
//   - Random: uniform draw over the remaining members (the default)
//   - FirstJoined: the longest-standing member, fully deterministic
//   - Rendezvous: highest-hash election, deterministic and coordination-free
//     across processes observing the same roster
//
// Custom strategies implement types.SuccessorStrategy.
package strategy
