package store

import (
	"context"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/store/migrations"
)

type memoryRoot struct {
	mu    sync.Mutex
	state *memoryState
}

type memoryState struct {
	schemaVersion int
	config        *domain.ProtocolConfig
	collections   map[common.Address]domain.Collection
	policies      map[common.Address]domain.RoyaltyPolicy
	nonces        map[string]struct{}
	digests       map[common.Hash]struct{}
	listings      map[string]*domain.Listing
	royalties     map[common.Address]*domain.RoyaltyBalance
	tokenBalances map[string]*big.Int
	allowances    map[string]*big.Int
	assetTokens   map[string]*domain.AssetToken
	assetBalances map[string]*big.Int
	approvals     map[string]bool
	markets       map[common.Address]common.Address
	journal       []domain.JournalEntry
}

func newMemoryState() *memoryState {
	return &memoryState{
		schemaVersion: migrations.Latest,
		collections:   map[common.Address]domain.Collection{},
		policies:      map[common.Address]domain.RoyaltyPolicy{},
		nonces:        map[string]struct{}{},
		digests:       map[common.Hash]struct{}{},
		listings:      map[string]*domain.Listing{},
		royalties:     map[common.Address]*domain.RoyaltyBalance{},
		tokenBalances: map[string]*big.Int{},
		allowances:    map[string]*big.Int{},
		assetTokens:   map[string]*domain.AssetToken{},
		assetBalances: map[string]*big.Int{},
		approvals:     map[string]bool{},
		markets:       map[common.Address]common.Address{},
	}
}

// clone copies every map. Stored values are never mutated in place, so
// copying pointers is enough to isolate a transaction from the committed state.
func (s *memoryState) clone() *memoryState {
	c := &memoryState{
		schemaVersion: s.schemaVersion,
		config:        s.config,
		collections:   make(map[common.Address]domain.Collection, len(s.collections)),
		policies:      make(map[common.Address]domain.RoyaltyPolicy, len(s.policies)),
		nonces:        make(map[string]struct{}, len(s.nonces)),
		digests:       make(map[common.Hash]struct{}, len(s.digests)),
		listings:      make(map[string]*domain.Listing, len(s.listings)),
		royalties:     make(map[common.Address]*domain.RoyaltyBalance, len(s.royalties)),
		tokenBalances: make(map[string]*big.Int, len(s.tokenBalances)),
		allowances:    make(map[string]*big.Int, len(s.allowances)),
		assetTokens:   make(map[string]*domain.AssetToken, len(s.assetTokens)),
		assetBalances: make(map[string]*big.Int, len(s.assetBalances)),
		approvals:     make(map[string]bool, len(s.approvals)),
		markets:       make(map[common.Address]common.Address, len(s.markets)),
		journal:       append([]domain.JournalEntry(nil), s.journal...),
	}
	for k, v := range s.collections {
		c.collections[k] = v
	}
	for k, v := range s.policies {
		c.policies[k] = v
	}
	for k, v := range s.nonces {
		c.nonces[k] = v
	}
	for k, v := range s.digests {
		c.digests[k] = v
	}
	for k, v := range s.listings {
		c.listings[k] = v
	}
	for k, v := range s.royalties {
		c.royalties[k] = v
	}
	for k, v := range s.tokenBalances {
		c.tokenBalances[k] = v
	}
	for k, v := range s.allowances {
		c.allowances[k] = v
	}
	for k, v := range s.assetTokens {
		c.assetTokens[k] = v
	}
	for k, v := range s.assetBalances {
		c.assetBalances[k] = v
	}
	for k, v := range s.approvals {
		c.approvals[k] = v
	}
	for k, v := range s.markets {
		c.markets[k] = v
	}
	return c
}

// memoryStore is an in-process Store. Outside a transaction every call locks
// the committed state; Transact works on a private copy and swaps it in on success.
type memoryStore struct {
	root  *memoryRoot
	state *memoryState
}

// NewMemoryStore creates a new in-memory store at the latest schema version
func NewMemoryStore() Store {
	return &memoryStore{root: &memoryRoot{state: newMemoryState()}}
}

func (s *memoryStore) view(fn func(st *memoryState) error) error {
	if s.state != nil {
		return fn(s.state)
	}
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	return fn(s.root.state)
}

func key(parts ...string) string {
	return strings.Join(parts, "|")
}

func (s *memoryStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	if s.state != nil {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.root.mu.Lock()
	defer s.root.mu.Unlock()

	working := s.root.state.clone()
	if err := fn(&memoryStore{root: s.root, state: working}); err != nil {
		return err
	}
	s.root.state = working
	return nil
}

func (s *memoryStore) AcquireWriteLock(ctx context.Context) error {
	return nil
}

func (s *memoryStore) GetSchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.view(func(st *memoryState) error {
		version = st.schemaVersion
		return nil
	})
	return version, err
}

func (s *memoryStore) SetSchemaVersion(ctx context.Context, version int) error {
	return s.view(func(st *memoryState) error {
		st.schemaVersion = version
		return nil
	})
}

func (s *memoryStore) GetProtocolConfig(ctx context.Context) (*domain.ProtocolConfig, error) {
	var cfg *domain.ProtocolConfig
	err := s.view(func(st *memoryState) error {
		cfg = st.config.Clone()
		return nil
	})
	return cfg, err
}

func (s *memoryStore) SaveProtocolConfig(ctx context.Context, cfg *domain.ProtocolConfig) error {
	return s.view(func(st *memoryState) error {
		stored := cfg.Clone()
		if st.schemaVersion < migrations.CounterVersion {
			stored.Counter = new(big.Int)
		}
		st.config = stored
		return nil
	})
}

func (s *memoryStore) GetCollection(ctx context.Context, address common.Address) (*domain.Collection, error) {
	var out *domain.Collection
	err := s.view(func(st *memoryState) error {
		if c, ok := st.collections[address]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (s *memoryStore) SaveCollection(ctx context.Context, collection *domain.Collection) error {
	return s.view(func(st *memoryState) error {
		st.collections[collection.Address] = *collection
		return nil
	})
}

func (s *memoryStore) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	var out []domain.Collection
	err := s.view(func(st *memoryState) error {
		for _, c := range st.collections {
			out = append(out, c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Address.Hex() < out[j].Address.Hex()
	})
	return out, err
}

func (s *memoryStore) GetRoyaltyPolicy(ctx context.Context, collection common.Address) (*domain.RoyaltyPolicy, error) {
	var out *domain.RoyaltyPolicy
	err := s.view(func(st *memoryState) error {
		if p, ok := st.policies[collection]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (s *memoryStore) SaveRoyaltyPolicy(ctx context.Context, policy *domain.RoyaltyPolicy) error {
	return s.view(func(st *memoryState) error {
		st.policies[policy.Collection] = *policy
		return nil
	})
}

func (s *memoryStore) MaxRoyaltyBps(ctx context.Context) (uint16, error) {
	var highest uint16
	err := s.view(func(st *memoryState) error {
		for _, p := range st.policies {
			if p.Bps > highest {
				highest = p.Bps
			}
		}
		return nil
	})
	return highest, err
}

func (s *memoryStore) ConsumeNonce(ctx context.Context, record domain.ConsumedNonce) (bool, error) {
	consumed := false
	err := s.view(func(st *memoryState) error {
		k := key(string(record.Kind), record.Principal.Hex(), record.Nonce.String())
		if _, ok := st.nonces[k]; ok {
			return nil
		}
		if _, ok := st.digests[record.Digest]; ok {
			return nil
		}
		st.nonces[k] = struct{}{}
		st.digests[record.Digest] = struct{}{}
		consumed = true
		return nil
	})
	return consumed, err
}

func (s *memoryStore) GetListing(ctx context.Context, k domain.ListingKey) (*domain.Listing, error) {
	var out *domain.Listing
	err := s.view(func(st *memoryState) error {
		out = st.listings[k.String()].Clone()
		return nil
	})
	return out, err
}

func (s *memoryStore) SaveListing(ctx context.Context, listing *domain.Listing) error {
	return s.view(func(st *memoryState) error {
		st.listings[listing.Key().String()] = listing.Clone()
		return nil
	})
}

func (s *memoryStore) ListListings(ctx context.Context, filter ListingFilter) ([]domain.Listing, error) {
	var out []domain.Listing
	err := s.view(func(st *memoryState) error {
		for _, l := range st.listings {
			if filter.Collection != nil && l.Collection != *filter.Collection {
				continue
			}
			if filter.Seller != nil && l.Seller != *filter.Seller {
				continue
			}
			if filter.Status != nil && l.Status != *filter.Status {
				continue
			}
			out = append(out, *l.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].Key().String() < out[j].Key().String()
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []domain.Listing{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *memoryStore) GetRoyaltyBalance(ctx context.Context, beneficiary common.Address) (*domain.RoyaltyBalance, error) {
	var out *domain.RoyaltyBalance
	err := s.view(func(st *memoryState) error {
		if b, ok := st.royalties[beneficiary]; ok {
			out = b.Clone()
			return nil
		}
		out = &domain.RoyaltyBalance{
			Beneficiary:  beneficiary,
			Accrued:      new(big.Int),
			TotalClaimed: new(big.Int),
		}
		return nil
	})
	return out, err
}

func (s *memoryStore) SaveRoyaltyBalance(ctx context.Context, balance *domain.RoyaltyBalance) error {
	return s.view(func(st *memoryState) error {
		st.royalties[balance.Beneficiary] = balance.Clone()
		return nil
	})
}

func (s *memoryStore) GetTokenBalance(ctx context.Context, token, account common.Address) (*big.Int, error) {
	var out *big.Int
	err := s.view(func(st *memoryState) error {
		out = domain.CloneInt(st.tokenBalances[key(token.Hex(), account.Hex())])
		return nil
	})
	return out, err
}

func (s *memoryStore) SetTokenBalance(ctx context.Context, token, account common.Address, amount *big.Int) error {
	return s.view(func(st *memoryState) error {
		st.tokenBalances[key(token.Hex(), account.Hex())] = domain.CloneInt(amount)
		return nil
	})
}

func (s *memoryStore) GetTokenAllowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	var out *big.Int
	err := s.view(func(st *memoryState) error {
		out = domain.CloneInt(st.allowances[key(token.Hex(), owner.Hex(), spender.Hex())])
		return nil
	})
	return out, err
}

func (s *memoryStore) SetTokenAllowance(ctx context.Context, token, owner, spender common.Address, amount *big.Int) error {
	return s.view(func(st *memoryState) error {
		st.allowances[key(token.Hex(), owner.Hex(), spender.Hex())] = domain.CloneInt(amount)
		return nil
	})
}

func (s *memoryStore) GetAssetToken(ctx context.Context, collection common.Address, tokenID *big.Int) (*domain.AssetToken, error) {
	var out *domain.AssetToken
	err := s.view(func(st *memoryState) error {
		out = st.assetTokens[key(collection.Hex(), tokenID.String())].Clone()
		return nil
	})
	return out, err
}

func (s *memoryStore) SaveAssetToken(ctx context.Context, token *domain.AssetToken) error {
	return s.view(func(st *memoryState) error {
		st.assetTokens[key(token.Collection.Hex(), token.TokenID.String())] = token.Clone()
		return nil
	})
}

func (s *memoryStore) GetAssetBalance(ctx context.Context, collection common.Address, tokenID *big.Int, owner common.Address) (*big.Int, error) {
	var out *big.Int
	err := s.view(func(st *memoryState) error {
		out = domain.CloneInt(st.assetBalances[key(collection.Hex(), tokenID.String(), owner.Hex())])
		return nil
	})
	return out, err
}

func (s *memoryStore) SetAssetBalance(ctx context.Context, collection common.Address, tokenID *big.Int, owner common.Address, amount *big.Int) error {
	return s.view(func(st *memoryState) error {
		st.assetBalances[key(collection.Hex(), tokenID.String(), owner.Hex())] = domain.CloneInt(amount)
		return nil
	})
}

func (s *memoryStore) GetOperatorApproval(ctx context.Context, collection, owner, operator common.Address) (bool, error) {
	var approved bool
	err := s.view(func(st *memoryState) error {
		approved = st.approvals[key(collection.Hex(), owner.Hex(), operator.Hex())]
		return nil
	})
	return approved, err
}

func (s *memoryStore) SetOperatorApproval(ctx context.Context, collection, owner, operator common.Address, approved bool) error {
	return s.view(func(st *memoryState) error {
		st.approvals[key(collection.Hex(), owner.Hex(), operator.Hex())] = approved
		return nil
	})
}

func (s *memoryStore) GetCollectionMarket(ctx context.Context, collection common.Address) (common.Address, error) {
	var market common.Address
	err := s.view(func(st *memoryState) error {
		market = st.markets[collection]
		return nil
	})
	return market, err
}

func (s *memoryStore) SetCollectionMarket(ctx context.Context, collection, market common.Address) error {
	return s.view(func(st *memoryState) error {
		st.markets[collection] = market
		return nil
	})
}

func (s *memoryStore) LastJournalEntry(ctx context.Context) (*domain.JournalEntry, error) {
	var out *domain.JournalEntry
	err := s.view(func(st *memoryState) error {
		if n := len(st.journal); n > 0 {
			e := st.journal[n-1]
			out = &e
		}
		return nil
	})
	return out, err
}

func (s *memoryStore) AppendJournalEntry(ctx context.Context, entry *domain.JournalEntry) error {
	return s.view(func(st *memoryState) error {
		st.journal = append(st.journal, *entry)
		return nil
	})
}

func (s *memoryStore) ListJournalEntries(ctx context.Context, after int64, limit int) ([]domain.JournalEntry, error) {
	var out []domain.JournalEntry
	err := s.view(func(st *memoryState) error {
		for _, e := range st.journal {
			if e.Sequence <= after {
				continue
			}
			out = append(out, e)
			if limit > 0 && len(out) == limit {
				break
			}
		}
		return nil
	})
	return out, err
}

func (s *memoryStore) ListUnpublishedJournalEntries(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	var out []domain.JournalEntry
	err := s.view(func(st *memoryState) error {
		for _, e := range st.journal {
			if e.PublishedAt != nil {
				continue
			}
			out = append(out, e)
			if limit > 0 && len(out) == limit {
				break
			}
		}
		return nil
	})
	return out, err
}

func (s *memoryStore) MarkJournalEntriesPublished(ctx context.Context, sequences []int64, at time.Time) error {
	marked := make(map[int64]struct{}, len(sequences))
	for _, seq := range sequences {
		marked[seq] = struct{}{}
	}
	return s.view(func(st *memoryState) error {
		for i := range st.journal {
			if _, ok := marked[st.journal[i].Sequence]; ok {
				t := at
				st.journal[i].PublishedAt = &t
			}
		}
		return nil
	})
}
