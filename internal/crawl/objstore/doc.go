// Package objstore crawls an S3-compatible bucket and registers its CSV
// objects as tables in the local catalog.
//
// Objects are listed recursively under a prefix. CSV objects are sampled
// (a ranged read of the first bytes), their delimiter is sniffed, and column
// types are inferred from the first rows. Each sampled CSV object becomes a
// table named after its file name without extension, upper-cased.
package objstore
