package repository

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/boltdb/bolt"
	"github.com/snnyvrz/book-catalog/internal/model"
)

var booksBucket = []byte("books")

// OpenBolt opens the database file and makes sure the books bucket exists.
func OpenBolt(path string, timeout time.Duration) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("open bolt database %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(booksBucket); err != nil {
			return fmt.Errorf("create %s bucket: %w", booksBucket, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// BoltBookStore keeps books as JSON values keyed by their big-endian id.
// Ids come from the bucket sequence, which survives Purge.
type BoltBookStore struct {
	db  *bolt.DB
	now func() time.Time
}

type BoltOption func(*BoltBookStore)

// WithClock sets the time source used for created_at and updated_at.
func WithClock(now func() time.Time) BoltOption {
	return func(s *BoltBookStore) {
		s.now = now
	}
}

func NewBoltBookStore(db *bolt.DB, opts ...BoltOption) *BoltBookStore {
	s := &BoltBookStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BoltBookStore) Close() error {
	return s.db.Close()
}

func (s *BoltBookStore) List(ctx context.Context, params BookListParams) (BookListResult, error) {
	params = params.Normalize()

	all, err := s.all(ctx)
	if err != nil {
		return BookListResult{}, err
	}

	if params.Query != "" {
		needle := strings.ToLower(params.Query)
		matched := all[:0]
		for _, b := range all {
			if strings.Contains(strings.ToLower(b.Title), needle) ||
				strings.Contains(strings.ToLower(b.Author), needle) {
				matched = append(matched, b)
			}
		}
		all = matched
	}

	sortBooks(all, params.SortBy, params.SortOrder == "desc")

	total := int64(len(all))
	start := params.offset()
	if start < 0 || start > len(all) {
		start = len(all)
	}
	end := len(all)
	if params.PerPage < end-start {
		end = start + params.PerPage
	}

	page := make([]model.Book, end-start)
	copy(page, all[start:end])

	return BookListResult{Books: page, Total: total}, nil
}

func (s *BoltBookStore) Search(ctx context.Context, params BookListParams) (BookListResult, error) {
	return s.List(ctx, params)
}

func (s *BoltBookStore) Get(_ context.Context, id uint) (*model.Book, error) {
	var book model.Book

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(booksBucket).Get(itob(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &book)
	})
	if err != nil {
		return nil, err
	}

	return &book, nil
}

func (s *BoltBookStore) Create(_ context.Context, book *model.Book) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return s.put(tx.Bucket(booksBucket), book)
	})
}

func (s *BoltBookStore) Update(_ context.Context, id uint, patch BookPatch) (*model.Book, error) {
	var book model.Book

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(booksBucket)

		v := bucket.Get(itob(id))
		if v == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(v, &book); err != nil {
			return err
		}
		if patch.Empty() {
			return nil
		}

		patch.apply(&book)
		book.UpdatedAt = s.now().UTC()

		data, err := json.Marshal(book)
		if err != nil {
			return err
		}
		return bucket.Put(itob(book.ID), data)
	})
	if err != nil {
		return nil, err
	}

	return &book, nil
}

func (s *BoltBookStore) Delete(_ context.Context, id uint) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(booksBucket)
		if bucket.Get(itob(id)) == nil {
			return ErrNotFound
		}
		return bucket.Delete(itob(id))
	})
}

// BulkCreate writes all books in a single transaction; any failure rolls
// back the whole batch, sequence included.
func (s *BoltBookStore) BulkCreate(ctx context.Context, books []model.Book) (int64, error) {
	if len(books) == 0 {
		return 0, nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(booksBucket)
		for i := range books {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.put(bucket, &books[i]); err != nil {
				return fmt.Errorf("book %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("bulk create books: %w", err)
	}

	return int64(len(books)), nil
}

func (s *BoltBookStore) Purge(_ context.Context) (int64, error) {
	var total int64

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(booksBucket)

		var keys [][]byte
		c := bucket.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			keys = append(keys, bytes.Clone(k))
		}

		for _, k := range keys {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		total = int64(len(keys))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("purge books: %w", err)
	}

	return total, nil
}

func (s *BoltBookStore) FindDuplicate(ctx context.Context, title, author string) (bool, error) {
	all, err := s.all(ctx)
	if err != nil {
		return false, err
	}

	title, author = normalizeKey(title), normalizeKey(author)
	for _, b := range all {
		if normalizeKey(b.Title) == title && normalizeKey(b.Author) == author {
			return true, nil
		}
	}
	return false, nil
}

func (s *BoltBookStore) Export(ctx context.Context, fields []string) ([]model.Book, error) {
	cols, err := exportColumnsFor(fields)
	if err != nil {
		return nil, err
	}

	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(cols))
	for _, c := range cols {
		keep[c] = true
	}

	out := make([]model.Book, len(all))
	for i, b := range all {
		out[i].ID = b.ID
		if keep["title"] {
			out[i].Title = b.Title
		}
		if keep["author"] {
			out[i].Author = b.Author
		}
		if keep["created_at"] {
			out[i].CreatedAt = b.CreatedAt
		}
	}

	return out, nil
}

func (s *BoltBookStore) Ping(_ context.Context) error {
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(booksBucket) == nil {
			return fmt.Errorf("bucket %s missing", booksBucket)
		}
		return nil
	})
}

// all returns every book in id order.
func (s *BoltBookStore) all(ctx context.Context) ([]model.Book, error) {
	var books []model.Book

	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(booksBucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var book model.Book
			if err := json.Unmarshal(v, &book); err != nil {
				return fmt.Errorf("decode book %d: %w", btoi(k), err)
			}
			books = append(books, book)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return books, nil
}

func (s *BoltBookStore) put(bucket *bolt.Bucket, book *model.Book) error {
	seq, err := bucket.NextSequence()
	if err != nil {
		return err
	}

	now := s.now().UTC()
	book.ID = uint(seq)
	book.CreatedAt = now
	book.UpdatedAt = now

	data, err := json.Marshal(book)
	if err != nil {
		return err
	}
	return bucket.Put(itob(book.ID), data)
}

func sortBooks(books []model.Book, sortBy string, desc bool) {
	less := func(a, b model.Book) int {
		switch sortBy {
		case "title":
			return strings.Compare(a.Title, b.Title)
		case "author":
			return strings.Compare(a.Author, b.Author)
		case "updated_at":
			return a.UpdatedAt.Compare(b.UpdatedAt)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}

	sort.SliceStable(books, func(i, j int) bool {
		c := less(books[i], books[j])
		if c == 0 {
			c = cmpUint(books[i].ID, books[j].ID)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func cmpUint(a, b uint) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func itob(id uint) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func btoi(b []byte) uint {
	return uint(binary.BigEndian.Uint64(b))
}
