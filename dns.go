// SPDX-License-Identifier: LGPL-3.0-or-later

package acmestub

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/miekg/dns"

	"github.com/jahkeup/acmestub/pkg/canned"
	"github.com/jahkeup/acmestub/pkg/loopback"
)

const (
	// defaultTTL is used for every record served by the DNS stub.
	defaultTTL = 60
	// ChallengeLabel prefixes names that carry dns-01 TXT records.
	ChallengeLabel = "_acme-challenge."
)

// DNS is a nameserver offering only limited capabilities. It lets clients that
// resolve the identifiers of the canned authorization (or any other name) end
// up on the local host. The backing NameserverDB is the "authority".
type DNS struct {
	server *dns.Server
	conn   net.PacketConn

	shutdownOnce sync.Once
	stopped      chan struct{}
	// unwatched is closed once nothing waits on the context anymore.
	unwatched chan struct{}
}

// NewDNS creates an ephemeral nameserver on a loopback UDP port. Queries will
// default to 127.0.0.1 unless otherwise configured in the supporting
// NameserverDB. The server is shut down when ctx is canceled.
func NewDNS(ctx context.Context, dnsdb *NameserverDB) (*DNS, error) {
	lc := net.ListenConfig{}
	lpc, err := lc.ListenPacket(ctx, "udp4", net.JoinHostPort(loopback.Host, "0"))
	if err != nil {
		return nil, fmt.Errorf("new listener: %w", err)
	}

	started := make(chan struct{})
	server := &dns.Server{
		PacketConn:        lpc,
		Handler:           dnsdb,
		NotifyStartedFunc: func() { close(started) },
	}

	served := make(chan error, 1)
	go func() {
		served <- server.ActivateAndServe()
	}()

	select {
	case <-started:
	case err := <-served:
		lpc.Close()
		return nil, fmt.Errorf("dns serve: %w", err)
	}

	d := &DNS{
		server:    server,
		conn:      lpc,
		stopped:   make(chan struct{}),
		unwatched: make(chan struct{}),
	}

	go func() {
		defer close(d.unwatched)
		select {
		case <-ctx.Done():
			d.Shutdown()
		case <-d.stopped:
		}
	}()

	return d, nil
}

// Addr returns the net.Addr where the nameserver is listening.
func (d *DNS) Addr() net.Addr {
	return d.conn.LocalAddr()
}

// Shutdown stops the nameserver. Calling Shutdown more than once is fine.
func (d *DNS) Shutdown() {
	d.shutdownOnce.Do(func() {
		close(d.stopped)
		if err := d.server.Shutdown(); err != nil {
			d.conn.Close()
		}
	})
}

// NameserverDB holds a basic datastore of query questions mapped to query
// responses. This can be used directly as a DNS handler - and is by DNS above.
type NameserverDB struct {
	m sync.Map
}

// NewChallengeDB returns a NameserverDB seeded with the dns-01 TXT record of
// the canned authorization.
func NewChallengeDB() *NameserverDB {
	db := new(NameserverDB)
	db.AddMsg(*ChallengeTXT(canned.AuthzIdentifier, canned.DNS01Token))
	return db
}

// ChallengeTXT builds a message answering the dns-01 TXT query for domain.
func ChallengeTXT(domain, value string) *dns.Msg {
	name := dns.Fqdn(ChallengeLabel + domain)

	m := new(dns.Msg)
	m.SetQuestion(name, dns.TypeTXT)
	m.Answer = []dns.RR{
		&dns.TXT{
			Hdr: dns.RR_Header{
				Name:   name,
				Rrtype: dns.TypeTXT,
				Class:  dns.ClassINET,
				Ttl:    defaultTTL,
			},
			Txt: []string{value},
		},
	}
	return m
}

func dbMsgKey(m *dns.Msg) string {
	if len(m.Question) != 1 {
		panic("cannot store multi-question messages")
	}
	q := m.Question[0]
	return fmt.Sprintf("%s-%s", dns.CanonicalName(q.Name), dns.TypeToString[q.Qtype])
}

// AddMsg stores the given DNS message for lookup when resolving names.
func (db *NameserverDB) AddMsg(r dns.Msg) {
	db.m.Store(dbMsgKey(&r), r)
}

// DeleteMsg immediately removes the given DNS message (by its question) and
// will no longer be returned in DNS query responses.
func (db *NameserverDB) DeleteMsg(r dns.Msg) {
	db.m.Delete(dbMsgKey(&r))
}

// GetMsg looks up a DNS query response based on its question.
func (db *NameserverDB) GetMsg(r *dns.Msg) *dns.Msg {
	if len(r.Question) != 1 {
		return nil
	}

	val, ok := db.m.Load(dbMsgKey(r))
	if !ok {
		return nil
	}

	mp, ok := val.(dns.Msg)
	if !ok {
		panic("nameserver db returned non-msg item")
	}
	return &mp
}

func defaultA(name string) dns.RR {
	return &dns.A{
		Hdr: dns.RR_Header{
			Name:   name,
			Rrtype: dns.TypeA,
			Class:  dns.ClassINET,
			Ttl:    defaultTTL,
		},
		A: net.ParseIP(loopback.Host).To4(),
	}
}

// ServeDNS answers from the stored messages first, then falls back to the
// loopback address for A queries and NXDOMAIN for everything else.
func (db *NameserverDB) ServeDNS(w dns.ResponseWriter, r *dns.Msg) {
	response := new(dns.Msg)
	response.SetReply(r)
	response.Authoritative = true

	if match := db.GetMsg(r); match != nil {
		response.Answer = make([]dns.RR, len(match.Answer))
		for i, rr := range match.Answer {
			response.Answer[i] = dns.Copy(rr)
		}
		w.WriteMsg(response)
		return
	}

	if len(r.Question) == 1 && r.Question[0].Qtype == dns.TypeA {
		response.Answer = []dns.RR{defaultA(r.Question[0].Name)}
	} else {
		response.SetRcode(r, dns.RcodeNameError)
	}

	w.WriteMsg(response)
}

var _ dns.Handler = (*NameserverDB)(nil)
