package sample

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"sync"

	"github.com/cronokirby/saferith"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/pool"
)

// primes generates an array containing all the odd prime numbers < below
func primes(below uint32) []uint32 {
	sieve := make([]bool, below)
	for i := 2; i < len(sieve); i++ {
		sieve[i] = true
	}
	for p := 2; p*p < len(sieve); p++ {
		if !sieve[p] {
			continue
		}
		for i := p << 1; i < len(sieve); i += p {
			sieve[i] = false
		}
	}
	nF := float64(below)
	out := make([]uint32, 0, int(nF/math.Log(nF)))
	for p := uint32(3); p < below; p++ {
		if sieve[p] {
			out = append(out, p)
		}
	}
	return out
}

// The number of numbers to check after our initial prime guess
const sieveSize = 1 << 18

// The upper bound on the prime numbers used for sieving
const primeBound = 1 << 20

// the number of iterations to use when checking primality
//
// 20 is the same number that Go uses internally.
const blumPrimalityIterations = 20

// maxPrimeIterations is the number of candidates tried before giving up on prime generation.
const maxPrimeIterations = 100_000

var ErrMaxPrimeIterations = fmt.Errorf("sample: failed to generate prime after %d iterations", maxPrimeIterations)

var thePrimes []uint32
var initPrimes sync.Once

var sievePool = sync.Pool{
	New: func() interface{} {
		sieve := make([]bool, sieveSize)
		return &sieve
	},
}

// randomBase reads a candidate of params.BitsBlumPrime bits, with the top two bits set and p = 3 mod 4.
//
// Setting the top two bits makes the product of two such primes exactly twice as long.
func randomBase(rand io.Reader) (*big.Int, bool) {
	bytes := make([]byte, (params.BitsBlumPrime+7)/8)
	if _, err := io.ReadFull(rand, bytes); err != nil {
		return nil, false
	}
	bytes[len(bytes)-1] |= 3
	bytes[0] |= 0xC0
	return new(big.Int).SetBytes(bytes), true
}

// trySafePrime sieves an interval after a random base for a safe prime p, so that (p - 1) / 2 is also prime.
func trySafePrime(rand io.Reader) (*saferith.Nat, bool) {
	initPrimes.Do(func() {
		thePrimes = primes(primeBound)
	})

	base, ok := randomBase(rand)
	if !ok {
		return nil, false
	}

	sievePtr := sievePool.Get().(*[]bool)
	sieve := *sievePtr
	defer sievePool.Put(sievePtr)
	for i := 0; i < len(sieve); i++ {
		sieve[i] = true
	}
	// Remove candidates that aren't 3 mod 4
	for i := 1; i+2 < len(sieve); i += 4 {
		sieve[i] = false
		sieve[i+1] = false
		sieve[i+2] = false
	}
	remainder := new(big.Int)
	for _, prime := range thePrimes {
		// If x = 0 mod r, then x can't be prime. If x = 1 mod r, then (x - 1) / 2
		// can't be prime, so x can't be a safe prime.
		remainder.SetUint64(uint64(prime))
		remainder.Mod(base, remainder)
		r := int(remainder.Uint64())
		primeInt := int(prime)
		firstMultiple := primeInt - r
		if r == 0 {
			firstMultiple = 0
		}
		for i := firstMultiple; i+1 < len(sieve); i += primeInt {
			sieve[i] = false
			sieve[i+1] = false
		}
	}
	p := new(big.Int)
	q := new(big.Int)
	for delta := 0; delta < len(sieve); delta++ {
		if !sieve[delta] {
			continue
		}
		p.SetUint64(uint64(delta))
		p.Add(p, base)
		if p.BitLen() > params.BitsBlumPrime {
			return nil, false
		}
		// Since p is odd, this is equivalent to (p - 1) / 2
		q.Rsh(p, 1)
		if !q.ProbablyPrime(blumPrimalityIterations) {
			continue
		}
		// a single round of Miller-Rabin suffices once q is prime
		if !p.ProbablyPrime(0) {
			continue
		}
		return new(saferith.Nat).SetBig(p, params.BitsBlumPrime), true
	}
	return nil, false
}

// BlumPrime returns a prime p = 3 mod 4 of params.BitsBlumPrime bits, without the safe prime property.
// It is much faster to generate than a safe prime and must only be used in tests.
func BlumPrime(rand io.Reader) *saferith.Nat {
	for i := 0; i < maxPrimeIterations; i++ {
		p, ok := randomBase(rand)
		if !ok {
			continue
		}
		four := big.NewInt(4)
		for j := 0; j < 4096 && p.BitLen() == params.BitsBlumPrime; j++ {
			if p.ProbablyPrime(blumPrimalityIterations) {
				return new(saferith.Nat).SetBig(p, params.BitsBlumPrime)
			}
			p.Add(p, four)
		}
	}
	panic(ErrMaxPrimeIterations)
}

// Paillier generates two distinct safe primes p, q, which are also Blum primes (p = 3 mod 4).
//
// The search is parallelized over pl. With a nil pool the output is a deterministic function of rand.
func Paillier(rand io.Reader, pl *pool.Pool) (p, q *saferith.Nat) {
	reader := pool.NewLockedReader(rand)
	for {
		results := pool.Search(pl, 2, func() (*saferith.Nat, bool) {
			return trySafePrime(reader)
		})
		if results[0].Eq(results[1]) != 1 {
			return results[0], results[1]
		}
	}
}

// PaillierUnsafe generates two distinct Blum primes that are not necessarily safe primes.
// It must only be used in tests.
func PaillierUnsafe(rand io.Reader) (p, q *saferith.Nat) {
	for {
		p, q = BlumPrime(rand), BlumPrime(rand)
		if p.Eq(q) != 1 {
			return
		}
	}
}
