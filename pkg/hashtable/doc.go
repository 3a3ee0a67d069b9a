/*
Package hashtable implements the chained hash table shared by the word
frequency counter and the follower model.

Keys are strings hashed with a base-32 Horner scheme tuned for lowercase
words, apostrophes, sentence stoppers and the space that joins word pairs.
Any other byte hashes to zero, so keys outside that alphabet still work but
collide heavily. Bucket counts are always prime.
*/
package hashtable
