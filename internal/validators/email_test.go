package validators

import (
	"context"
	"errors"
	"net"
	"testing"
)

type stubResolver struct {
	mx    map[string]bool
	hosts map[string]bool
	calls int
}

func (s *stubResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	s.calls++
	if s.mx[name] {
		return []*net.MX{{Host: "mx." + name, Pref: 10}}, nil
	}
	return nil, errors.New("no such host")
}

func (s *stubResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	s.calls++
	if s.hosts[host] {
		return []string{"203.0.113.7"}, nil
	}
	return nil, errors.New("no such host")
}

func TestEmailDomainResolves(t *testing.T) {
	r := &stubResolver{
		mx:    map[string]bool{"clinica.com.br": true},
		hosts: map[string]bool{"consultorio.app": true},
	}

	cases := []struct {
		email string
		want  bool
	}{
		{"ana@clinica.com.br", true},
		{"  Ana@Clinica.COM.BR ", true},
		{"bia@consultorio.app", true},
		{"caio@inexistente.dev", false},
		{"semarroba.com", false},
		{"@clinica.com.br", false},
		{"ana@", false},
		{"ana@localhost", false},
	}

	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			if got := EmailDomainResolves(context.Background(), r, tc.email); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestEmailDomainSkipsLookupWhenMalformed(t *testing.T) {
	r := &stubResolver{}
	EmailDomainResolves(context.Background(), r, "sem-dominio@")
	if r.calls != 0 {
		t.Errorf("expected no lookups, got %d", r.calls)
	}
}
