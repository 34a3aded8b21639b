// Package document loads OpenAPI and Swagger documents into yaml node trees and answers the
// questions rule evaluation asks of them: which nodes does a selector match, what is the path of
// a node, what value lives at a path and where in the source file is it.
//
// Every document has two trees. The unresolved tree is the document as written. The resolved
// tree is a copy in which every local $ref has been replaced by a copy of its target, keeping
// the target's source positions. A reference that would recurse into itself is left in place.
package document
