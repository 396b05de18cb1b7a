// Package item implements a live item value bound to a descriptor: setting,
// encoding, and decoding the item's packed representation, either
// row-by-row through the bit codec or, for dtype-tagged descriptors, as a
// flat byte-swapped dense array.
package item
