/*
Package interpreter turns a free-form user utterance into an ordered list of actions.

The interpreter asks a ports.TextGenerator to translate the utterance into JSON action
descriptors, recovers the structured value with package extract, and decodes each
descriptor into a domain.Action. The result is never empty: service failures and
unusable responses become a single domain.Failure.
*/
package interpreter
