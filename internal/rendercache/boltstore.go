package rendercache

import (
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"
)

// compressThreshold is the artifact size below which compression is skipped;
// small SVGs gain nothing from zstd.
const compressThreshold = 512

var bucketArtifacts = []byte("artifacts")

// artifactRecord is the msgpack envelope stored per key.
type artifactRecord struct {
	Data       []byte `msgpack:"d"`
	Compressed bool   `msgpack:"c"`
	CreatedAt  int64  `msgpack:"t"`
}

// BoltStore is a persistent artifact store for pipelines that want cache
// state to survive outside the temp directory. Values are zstd-compressed
// msgpack records in a single bucket.
type BoltStore struct {
	db      *bolt.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// OpenBolt opens or creates the store database at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: 10 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open BoltDB: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketArtifacts)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create artifacts bucket: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = encoder.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &BoltStore{db: db, encoder: encoder, decoder: decoder}, nil
}

// Close releases the database and codecs.
func (s *BoltStore) Close() error {
	_ = s.encoder.Close()
	s.decoder.Close()
	return s.db.Close()
}

func (s *BoltStore) Get(key string) ([]byte, bool, error) {
	var rec *artifactRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketArtifacts).Get([]byte(key))
		if data == nil {
			return nil
		}
		var r artifactRecord
		if err := msgpack.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("decode artifact record %s: %w", key, err)
		}
		rec = &r
		return nil
	})
	if err != nil || rec == nil {
		return nil, false, err
	}

	if rec.Compressed {
		out, err := s.decoder.DecodeAll(rec.Data, nil)
		if err != nil {
			return nil, false, fmt.Errorf("decompress artifact %s: %w", key, err)
		}
		return out, true, nil
	}
	return rec.Data, true, nil
}

func (s *BoltStore) Put(key string, artifact []byte) error {
	rec := artifactRecord{
		Data:      artifact,
		CreatedAt: time.Now().Unix(),
	}
	if len(artifact) >= compressThreshold {
		rec.Data = s.encoder.EncodeAll(artifact, nil)
		rec.Compressed = true
	}

	data, err := msgpack.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("encode artifact record %s: %w", key, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketArtifacts).Put([]byte(key), data)
	})
}
