package in_mem

import (
	"testing"

	"github.com/DjordjeVuckovic/news-radar/internal/storage"
	"github.com/DjordjeVuckovic/news-radar/internal/storage/storagetest"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return NewStore()
	})
}
