package sslcert

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net"
	"time"
)

// Generator генератор самоподписанных SSL сертификатов для локального HTTPS.
type Generator struct {
	template *x509.Certificate
}

// Option изменяет шаблон сертификата перед генерацией.
type Option func(*x509.Certificate)

// New создает генератор с шаблоном по умолчанию: localhost (127.0.0.1 и ::1),
// срок действия 10 лет, клиентская и серверная аутентификация.
func New(opts ...Option) (*Generator, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128)) //nolint:mnd
	if err != nil {
		return nil, fmt.Errorf("generate serial number: %w", err)
	}
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization: []string{"slugreg dev"},
		},
		IPAddresses: []net.IP{
			net.IPv4(127, 0, 0, 1), //nolint:mnd
			net.IPv6loopback,
		},
		DNSNames:  []string{"localhost"},
		NotBefore: time.Now(),
		NotAfter:  time.Now().AddDate(10, 0, 0), //nolint:mnd
		ExtKeyUsage: []x509.ExtKeyUsage{
			x509.ExtKeyUsageClientAuth,
			x509.ExtKeyUsageServerAuth,
		},
		KeyUsage: x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
	}
	for _, opt := range opts {
		opt(template)
	}
	return &Generator{template: template}, nil
}

// MustNew аналогичен New(), но в случае ошибки вызывает панику.
func MustNew(opts ...Option) *Generator {
	g, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// Generate генерирует пару сертификат/приватный ключ в формате PEM.
func (c *Generator) Generate() ([]byte, []byte, error) {
	privKey, errGenPrivKey := rsa.GenerateKey(rand.Reader, 4096) //nolint:mnd
	if errGenPrivKey != nil {
		return nil, nil, fmt.Errorf("generate private key: %w", errGenPrivKey)
	}
	certBytes, errGenCert := x509.CreateCertificate(
		rand.Reader, c.template, c.template, &privKey.PublicKey, privKey,
	)
	if errGenCert != nil {
		return nil, nil, fmt.Errorf("generate certificate: %w", errGenCert)
	}

	certPEM, privPEM, errPEM := pemEncode(privKey, certBytes)
	if errPEM != nil {
		return nil, nil, fmt.Errorf("encode certificate and private key: %w", errPEM)
	}
	return certPEM, privPEM, nil
}

// CheckPemFiles проверяет PEM-данные сертификата и приватного ключа:
// непустые данные, корректный PEM, тип CERTIFICATE, срок действия.
//
// Возможные ошибки: ErrBlankPEM, ErrCertExpired, ErrCertNotValidYet.
func (c *Generator) CheckPemFiles(certSource io.Reader, keySource io.Reader) error {
	certBytes, errReadCert := io.ReadAll(certSource)
	if errReadCert != nil {
		return fmt.Errorf("read certificate: %w", errReadCert)
	}
	keyBytes, errReadKey := io.ReadAll(keySource)
	if errReadKey != nil {
		return fmt.Errorf("read private key: %w", errReadKey)
	}
	if len(certBytes) == 0 || len(keyBytes) == 0 {
		return ErrBlankPEM
	}

	block, _ := pem.Decode(certBytes)
	if block == nil {
		return errors.New("decode certificate: pem block is nil")
	}
	if block.Type != "CERTIFICATE" {
		return errors.New("certificate type is not CERTIFICATE")
	}

	cert, errParseCert := x509.ParseCertificate(block.Bytes)
	if errParseCert != nil {
		return fmt.Errorf("parse certificate: %w", errParseCert)
	}

	now := time.Now()
	if cert.NotBefore.After(now) {
		return ErrCertNotValidYet
	}
	if cert.NotAfter.Before(now) {
		return ErrCertExpired
	}
	return nil
}

// pemEncode кодирует сертификат и приватный ключ в формат PEM.
func pemEncode(privKey *rsa.PrivateKey, certBytes []byte) ([]byte, []byte, error) {
	var certPEM bytes.Buffer
	if err := pem.Encode(&certPEM, &pem.Block{
		Type:  "CERTIFICATE",
		Bytes: certBytes,
	}); err != nil {
		return nil, nil, fmt.Errorf("pem encode certificate: %w", err)
	}

	var privKeyPEM bytes.Buffer
	if err := pem.Encode(&privKeyPEM, &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privKey),
	}); err != nil {
		return nil, nil, fmt.Errorf("pem encode RSA: %w", err)
	}

	return certPEM.Bytes(), privKeyPEM.Bytes(), nil
}
