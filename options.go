package collectorking

import (
	"github.com/collectorking/collectorking/pkg/collection"
	"github.com/collectorking/collectorking/pkg/reconcile"
)

// Option is a function that configures a Library instance.
type Option func(*config) error

// config holds the assembled configuration for New.
type config struct {
	collectionPath string
	imagesDir      string
	quantityPolicy collection.QuantityPolicy

	store   collection.Store
	catalog reconcile.Catalog
	images  reconcile.ImageFetcher
	chooser reconcile.Chooser
	sink    reconcile.ProgressSink
}

func defaultConfig() *config {
	return &config{
		collectionPath: "collection.yaml",
		imagesDir:      "images",
		quantityPolicy: collection.QuantityReplace,
		sink:           reconcile.NopSink{},
	}
}

// WithCollectionFile sets the path of the YAML collection file.
func WithCollectionFile(path string) Option {
	return func(c *config) error {
		c.collectionPath = path
		return nil
	}
}

// WithStore replaces the collection store entirely, bypassing the file
// store. Useful for tests and embedding.
func WithStore(store collection.Store) Option {
	return func(c *config) error {
		c.store = store
		return nil
	}
}

// WithCatalog replaces the catalog client.
func WithCatalog(catalog reconcile.Catalog) Option {
	return func(c *config) error {
		c.catalog = catalog
		return nil
	}
}

// WithImagesDir sets the artwork cache directory. An empty path disables
// image caching.
func WithImagesDir(dir string) Option {
	return func(c *config) error {
		c.imagesDir = dir
		return nil
	}
}

// WithImageFetcher replaces the artwork cache entirely.
func WithImageFetcher(fetcher reconcile.ImageFetcher) Option {
	return func(c *config) error {
		c.images = fetcher
		return nil
	}
}

// WithChooser sets the disambiguation callback invoked when a blank-rarity
// row matches several catalog rarities. Without one, such rows are skipped.
func WithChooser(chooser reconcile.Chooser) Option {
	return func(c *config) error {
		c.chooser = chooser
		return nil
	}
}

// WithProgressSink sets the sink that receives per-row outcomes during
// batch operations.
func WithProgressSink(sink reconcile.ProgressSink) Option {
	return func(c *config) error {
		if sink != nil {
			c.sink = sink
		}
		return nil
	}
}

// WithQuantityPolicy sets what importing an already stored key does to its
// quantity: replace (default) or accumulate.
func WithQuantityPolicy(policy collection.QuantityPolicy) Option {
	return func(c *config) error {
		c.quantityPolicy = policy
		return nil
	}
}
