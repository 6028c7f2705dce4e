// Package policy implements the join policy evaluator.
//
// The evaluator decides admission for AddMember based on the party type:
// public parties admit everyone, friends parties admit friends of the
// current owner, and private parties admit candidates presenting the party
// secret. A rejection is an ordinary outcome, not an error; errors are
// reserved for evaluator failures such as an unreachable friend directory.
package policy
