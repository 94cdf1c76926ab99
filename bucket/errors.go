package bucket

import "errors"

// ErrNoFeatures indicates a Bucketiser was asked to build over a matrix with zero columns.
var ErrNoFeatures = errors.New("bucket: feature matrix has no columns")

// ErrFeatureIndexOutOfRange indicates a lookup referenced a feature column that does not exist.
var ErrFeatureIndexOutOfRange = errors.New("bucket: feature index out of range")
