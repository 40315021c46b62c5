package vrf

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/pairing"
	"go.dedis.ch/kyber/v3/sign/bls"
	"go.dedis.ch/kyber/v3/util/random"
)

// Fulfiller receives the value generated for a request
type Fulfiller func(ctx context.Context, requestID string, value uint64) error

// Proof lets anyone holding the public key check that a value was derived
// from the oracle's signature over the request id
type Proof struct {
	RequestID string `json:"requestId"`
	Signature []byte `json:"signature"`
	Value     uint64 `json:"value"`
}

// Oracle is an in-process verifiable randomness source. Every request is
// answered once, asynchronously, after a fixed delay.
type Oracle struct {
	suite   *pairing.SuiteBn256
	secret  kyber.Scalar
	public  kyber.Point
	address models.Address
	delay   time.Duration

	mu        sync.Mutex
	fulfiller Fulfiller
	proofs    map[string]*Proof

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *log.Entry
}

// New creates an oracle with a fresh BLS key pair. address is the identity
// it fulfils as.
func New(address models.Address, delay time.Duration) *Oracle {
	suite := pairing.NewSuiteBn256()
	secret, public := bls.NewKeyPair(suite, random.New())
	ctx, cancel := context.WithCancel(context.Background())

	return &Oracle{
		suite:   suite,
		secret:  secret,
		public:  public,
		address: address,
		delay:   delay,
		proofs:  make(map[string]*Proof),
		ctx:     ctx,
		cancel:  cancel,
		logger:  log.WithField("component", "vrf"),
	}
}

// SetFulfiller registers where generated values are delivered
func (o *Oracle) SetFulfiller(f Fulfiller) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fulfiller = f
}

func (o *Oracle) Address() models.Address {
	return o.address
}

// PublicKey returns the hex encoded BLS public key
func (o *Oracle) PublicKey() (string, error) {
	buf, err := o.public.MarshalBinary()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// RequestRandomness signs a new request id and schedules the delivery of the
// derived value. It never waits for the delivery.
func (o *Oracle) RequestRandomness(_ context.Context) (string, error) {
	if o.ctx.Err() != nil {
		return "", errors.New("oracle is closed")
	}

	requestID := uuid.NewString()
	sig, err := bls.Sign(o.suite, o.secret, []byte(requestID))
	if err != nil {
		return "", fmt.Errorf("failed to sign request: %w", err)
	}
	proof := &Proof{RequestID: requestID, Signature: sig, Value: valueOf(sig)}

	o.mu.Lock()
	o.proofs[requestID] = proof
	o.mu.Unlock()

	o.wg.Add(1)
	go o.deliver(proof)

	return requestID, nil
}

// Proof returns the proof of a request issued by this oracle
func (o *Oracle) Proof(requestID string) (*Proof, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	proof, ok := o.proofs[requestID]
	return proof, ok
}

// Verify checks the signature and the value of a proof
func (o *Oracle) Verify(proof *Proof) error {
	if err := bls.Verify(o.suite, o.public, []byte(proof.RequestID), proof.Signature); err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}
	if valueOf(proof.Signature) != proof.Value {
		return errors.New("value does not match signature")
	}
	return nil
}

// Close drops pending deliveries and waits for in-flight ones
func (o *Oracle) Close() {
	o.cancel()
	o.wg.Wait()
}

func (o *Oracle) deliver(proof *Proof) {
	defer o.wg.Done()

	select {
	case <-time.After(o.delay):
	case <-o.ctx.Done():
		return
	}

	o.mu.Lock()
	fulfill := o.fulfiller
	o.mu.Unlock()

	fields := log.Fields{"request": proof.RequestID, "value": proof.Value}
	if fulfill == nil {
		o.logger.WithFields(fields).Error("no fulfiller registered, dropping value")
		return
	}
	if err := fulfill(o.ctx, proof.RequestID, proof.Value); err != nil {
		o.logger.WithFields(fields).WithError(err).Warn("randomness not accepted")
		return
	}
	o.logger.WithFields(fields).Debug("randomness delivered")
}

// valueOf reads the first 8 bytes of the signature digest
func valueOf(sig []byte) uint64 {
	digest := sha256.Sum256(sig)
	return binary.BigEndian.Uint64(digest[:8])
}
