package tracer

import (
	"bufio"
	"context"
	"errors"
	"testing"

	"github.com/onsi/gomega"
)

const mockApitrace = "testdata/mock-apitrace.sh"

func TestNewValidatesVersion(t *testing.T) {
	gomega.RegisterTestingT(t)

	d, err := New(context.Background(), Options{ApitracePath: mockApitrace})
	gomega.Expect(err).To(gomega.Succeed())
	gomega.Expect(d.path).To(gomega.Equal(mockApitrace))
}

func TestNewRejectsMissingPath(t *testing.T) {
	gomega.RegisterTestingT(t)

	_, err := New(context.Background(), Options{ApitracePath: "/no/such/apitrace"})
	gomega.Expect(errors.Is(err, ErrInvalidPath)).To(gomega.BeTrue())
}

func TestParseVersion(t *testing.T) {
	gomega.RegisterTestingT(t)

	v, err := parseVersion("12.1.0")
	gomega.Expect(err).To(gomega.Succeed())
	gomega.Expect(v).To(gomega.Equal(12.1))

	_, err = parseVersion("nope")
	gomega.Expect(err).NotTo(gomega.Succeed())
}

func TestDumpStreamsStdout(t *testing.T) {
	gomega.RegisterTestingT(t)

	d, err := New(context.Background(), Options{ApitracePath: mockApitrace})
	gomega.Expect(err).To(gomega.Succeed())

	session, err := d.Dump(context.Background(), "fixture.trace")
	gomega.Expect(err).To(gomega.Succeed())

	var lines []string
	scanner := bufio.NewScanner(session.Stdout)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	gomega.Expect(<-session.ExitChannel).To(gomega.Succeed())
	gomega.Expect(lines).To(gomega.HaveLen(2))
	gomega.Expect(lines[0]).To(gomega.ContainSubstring("Direct3DCreate9"))
}

func TestBinaryStem(t *testing.T) {
	gomega.RegisterTestingT(t)

	gomega.Expect(BinaryStem("/traces/game.trace")).To(gomega.Equal("game"))
	gomega.Expect(BinaryStem("/traces/game.trace.zst")).To(gomega.Equal("game"))
}

func TestResolveInputPassesThroughPlainTrace(t *testing.T) {
	gomega.RegisterTestingT(t)

	resolved, cleanup, err := ResolveInput("fixture.trace")
	gomega.Expect(err).To(gomega.Succeed())
	gomega.Expect(resolved).To(gomega.Equal("fixture.trace"))
	cleanup()
}
