package auth

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog"

	"github.com/GoPowerDNS-Admin/idsync/internal/attribute"
	"github.com/GoPowerDNS-Admin/idsync/internal/config"
)

// ErrLDAPDisabled is returned when LDAP authentication is disabled via configuration.
var ErrLDAPDisabled = errors.New("ldap authentication is disabled")

// dnAttribute makes the entry DN available as a regular attribute.
const dnAttribute = "dn"

// LDAPProvider handles LDAP authentication.
type LDAPProvider struct {
	config config.LDAPAuth
	// imageAttribute is the store attribute receiving the raw ImageAttr value.
	imageAttribute string
	log            zerolog.Logger
}

// NewLDAPProvider creates a new LDAP provider. The profile photo found in
// cfg.ImageAttr is handed over as imageAttribute, which is the attribute the
// image syncer reads (default "image").
func NewLDAPProvider(cfg *config.LDAPAuth, imageAttribute string, log zerolog.Logger) (*LDAPProvider, error) {
	if !cfg.Enabled {
		return nil, ErrLDAPDisabled
	}

	c := *cfg

	// Set defaults
	if c.ExternalIDAttr == "" {
		c.ExternalIDAttr = "uid"
	}

	if c.EmailAttr == "" {
		c.EmailAttr = "mail"
	}

	if c.FirstNameAttr == "" {
		c.FirstNameAttr = "givenName"
	}

	if c.LastNameAttr == "" {
		c.LastNameAttr = "sn"
	}

	if c.GroupFilter == "" {
		c.GroupFilter = "(member={userdn})"
	}

	if c.Timeout == 0 {
		c.Timeout = 10
	}

	if imageAttribute == "" {
		imageAttribute = attribute.Image
	}

	return &LDAPProvider{
		config:         c,
		imageAttribute: imageAttribute,
		log:            log,
	}, nil
}

// Connect establishes a connection to the LDAP server.
func (p *LDAPProvider) Connect() (*ldap.Conn, error) {
	hostPort := net.JoinHostPort(p.config.Host, strconv.Itoa(p.config.Port))

	ldapURL := "ldap://" + hostPort
	if p.config.UseSSL {
		ldapURL = "ldaps://" + hostPort
	}

	var tlsConfig *tls.Config
	if p.config.UseSSL || p.config.UseTLS {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: p.config.SkipVerify, //nolint:gosec // skipping verifying tls is ok
			ServerName:         p.config.Host,
		}
	}

	conn, err := ldap.DialURL(ldapURL,
		ldap.DialWithTLSConfig(tlsConfig),
		ldap.DialWithDialer(&net.Dialer{Timeout: p.timeout()}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP server: %w", err)
	}

	// Upgrade to TLS if requested (for non-SSL connections)
	if !p.config.UseSSL && p.config.UseTLS {
		if errStartTLS := conn.StartTLS(tlsConfig); errStartTLS != nil {
			p.close(conn)

			return nil, fmt.Errorf("failed to start TLS: %w", errStartTLS)
		}
	}

	conn.SetTimeout(p.timeout())

	return conn, nil
}

// Authenticate binds as username with password and returns the attributes of
// the user entry together with the DNs of the user's groups.
func (p *LDAPProvider) Authenticate(username, password string) (*attribute.Store, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}

	return p.fetch(username, func(conn *ldap.Conn, userDN string) error {
		if err := conn.Bind(userDN, password); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}

		// groups are searched with the service account again
		return p.bindService(conn)
	})
}

// Lookup returns the attributes of username like Authenticate, but only binds
// with the service account.
func (p *LDAPProvider) Lookup(username string) (*attribute.Store, error) {
	return p.fetch(username, nil)
}

// TestConnection tests the LDAP server connection and bind credentials.
func (p *LDAPProvider) TestConnection() error {
	conn, err := p.Connect()
	if err != nil {
		return err
	}

	defer p.close(conn)

	return p.bindService(conn)
}

func (p *LDAPProvider) fetch(username string, asUser func(conn *ldap.Conn, userDN string) error) (*attribute.Store, error) {
	conn, err := p.Connect()
	if err != nil {
		return nil, err
	}

	defer p.close(conn)

	if err = p.bindService(conn); err != nil {
		return nil, err
	}

	entry, err := p.searchUserEntry(conn, username)
	if err != nil {
		return nil, err
	}

	if asUser != nil {
		if err = asUser(conn, entry.DN); err != nil {
			return nil, err
		}
	}

	groups, err := p.searchGroups(conn, entry.DN)
	if err != nil {
		return nil, err
	}

	store := p.entryToStore(entry, groups)

	p.log.Debug().Str("dn", entry.DN).Int("groups", len(groups)).Msg("ldap user resolved")

	return store, nil
}

// bindService binds with the configured service account, if any.
func (p *LDAPProvider) bindService(conn *ldap.Conn) error {
	if p.config.BindDN == "" {
		return nil
	}

	if err := conn.Bind(p.config.BindDN, p.config.BindPassword); err != nil {
		return fmt.Errorf("failed to bind with service account: %w", err)
	}

	return nil
}

// searchUserEntry searches LDAP for the given username and returns a single entry.
func (p *LDAPProvider) searchUserEntry(conn *ldap.Conn, username string) (*ldap.Entry, error) {
	searchRequest := ldap.NewSearchRequest(
		p.config.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, // Size limit
		p.config.Timeout,
		false,
		p.userFilter(username),
		p.searchAttributes(),
		nil,
	)

	searchResult, err := conn.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to search for user: %w", err)
	}

	switch len(searchResult.Entries) {
	case 0:
		return nil, ErrUserNotFound
	case 1:
		return searchResult.Entries[0], nil
	default:
		return nil, ErrMultipleUsersFound
	}
}

// searchGroups returns the DNs of the groups userDN is a member of.
func (p *LDAPProvider) searchGroups(conn *ldap.Conn, userDN string) ([]string, error) {
	if p.config.GroupBaseDN == "" {
		return nil, nil
	}

	searchRequest := ldap.NewSearchRequest(
		p.config.GroupBaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		p.config.Timeout,
		false,
		p.groupFilter(userDN),
		[]string{dnAttribute},
		nil,
	)

	searchResult, err := conn.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to search for groups: %w", err)
	}

	groups := make([]string, len(searchResult.Entries))
	for i, entry := range searchResult.Entries {
		groups[i] = entry.DN
	}

	return groups, nil
}

func (p *LDAPProvider) userFilter(username string) string {
	return strings.ReplaceAll(p.config.UserFilter, "{username}", ldap.EscapeFilter(username))
}

func (p *LDAPProvider) groupFilter(userDN string) string {
	return strings.ReplaceAll(p.config.GroupFilter, "{userdn}", ldap.EscapeFilter(userDN))
}

// searchAttributes returns the attributes to request; nil requests all user attributes.
func (p *LDAPProvider) searchAttributes() []string {
	if len(p.config.SearchAttributes) == 0 {
		return nil
	}

	attrs := append([]string{}, p.config.SearchAttributes...)
	for _, a := range []string{
		p.config.ExternalIDAttr,
		p.config.EmailAttr,
		p.config.FirstNameAttr,
		p.config.LastNameAttr,
		p.config.ImageAttr,
	} {
		if a != "" && a != dnAttribute {
			attrs = append(attrs, a)
		}
	}

	return attrs
}

// entryToStore copies every attribute of entry into a store and adds the
// well-known attributes. groups is only set when group lookup is configured.
func (p *LDAPProvider) entryToStore(entry *ldap.Entry, groups []string) *attribute.Store {
	store := attribute.New()

	for _, a := range entry.Attributes {
		if strings.EqualFold(a.Name, p.config.ImageAttr) {
			continue
		}

		store.Add(a.Name, a.Values...)
	}

	store.Add(dnAttribute, entry.DN)

	p.mapValue(store, entry, attribute.ExternalID, p.config.ExternalIDAttr)
	p.mapValue(store, entry, attribute.FirstName, p.config.FirstNameAttr)
	p.mapValue(store, entry, attribute.LastName, p.config.LastNameAttr)
	p.mapValue(store, entry, attribute.Email, p.config.EmailAttr)

	if p.config.ImageAttr != "" {
		if raw := entry.GetRawAttributeValue(p.config.ImageAttr); len(raw) > 0 {
			store.Add(p.imageAttribute, string(raw))
		}
	}

	if p.config.GroupBaseDN != "" {
		store.Add(attribute.Groups, groups...)
	}

	return store
}

// mapValue copies the first value of the LDAP attribute from to the attribute to.
func (p *LDAPProvider) mapValue(store *attribute.Store, entry *ldap.Entry, to, from string) {
	if strings.EqualFold(from, dnAttribute) {
		store.Add(to, entry.DN)
		return
	}

	if v := entry.GetEqualFoldAttributeValue(from); v != "" {
		store.Add(to, v)
	}
}

func (p *LDAPProvider) timeout() time.Duration {
	return time.Duration(p.config.Timeout) * time.Second
}

func (p *LDAPProvider) close(conn *ldap.Conn) {
	if err := conn.Close(); err != nil {
		p.log.Warn().Err(err).Msg("failed to close LDAP connection")
	}
}
