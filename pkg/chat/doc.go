/*
Package chat trains a word and word-pair follower model from plain text and
walks it at random to produce width-bounded lines of new text.

Training reads tokens (lowercase words and the stoppers ".", "!" and "?")
from a Tokenizer and records, for every word pair, the words seen after it.
Generation starts from the stopper ".", picks an opening word and its
successor, then slides a two-word window forward one follower at a time.

A Chatter owns its model and its random generator and is not safe for
concurrent use.
*/
package chat
