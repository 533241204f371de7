// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/hoptrace/internal/traceroute"
	"github.com/telekom/hoptrace/pkg/api"
)

func TestBuildCmd(t *testing.T) {
	c := BuildCmd("")

	var names []string
	for _, sub := range c.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"trace", "serve", "version"})
	assert.NotNil(t, c.PersistentFlags().Lookup("config"))
}

func TestVersionCmd(t *testing.T) {
	c := BuildCmd("1.2.3")
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetArgs([]string{"version"})

	require.NoError(t, c.Execute())
	assert.Equal(t, "hoptrace 1.2.3 "+runtime.GOOS+"/"+runtime.GOARCH+"\n", out.String())
}

func TestTraceCmd_invalidOutput(t *testing.T) {
	c := BuildCmd("")
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetArgs([]string{"trace", "--output", "xml", "example.com"})

	err := c.Execute()
	assert.ErrorContains(t, err, `unknown output "xml"`)
}

func TestLoadConfig_flags(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()

	c := NewCmdTrace()
	require.NoError(t, c.Flags().Parse([]string{"--max-hops", "12", "--timeout", "1s", "--retry-count", "2"}))
	require.NoError(t, c.PreRunE(c, nil))

	cfg, err := loadConfig(t.Context())
	require.NoError(t, err)
	assert.Equal(t, traceroute.Options{MaxHops: 12, Timeout: time.Second, Margin: traceroute.DefaultMargin}, cfg.Trace)
	assert.Equal(t, 2, cfg.Retry.Count)
	assert.Equal(t, api.Config{ListeningAddress: defaultAddress}, cfg.Api)
}

func TestLoadConfig_invalid(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()

	c := NewCmdTrace()
	require.NoError(t, c.Flags().Parse([]string{"--max-hops", "300"}))
	require.NoError(t, c.PreRunE(c, nil))

	_, err := loadConfig(t.Context())
	assert.Error(t, err)
}
