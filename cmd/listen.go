package cmd

import (
	"fmt"
	"log"
	"net"
	"net/http"

	"github.com/bloodmagesoftware/geoanswer/submit"
	"github.com/spf13/cobra"
)

var (
	listenAddr      string
	listenAdvertise bool
	listenRejectAll bool
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Run a development evaluator that acknowledges answers",
	Long: `Serves the answer websocket and logs every answer it receives. With
--advertise it announces itself over mDNS so capture and submit can find it
without a configured url.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		ln, err := net.Listen("tcp", listenAddr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", listenAddr, err)
		}
		defer ln.Close()
		port := ln.Addr().(*net.TCPAddr).Port

		if listenAdvertise {
			server, err := submit.Advertise(config.Evaluator.Service, port, submit.DefaultPath)
			if err != nil {
				return err
			}
			defer server.Shutdown()
		}

		mux := http.NewServeMux()
		mux.Handle(submit.DefaultPath, &submit.Receiver{
			Accept: func(env submit.Envelope) bool {
				log.Printf("answer for %q: %s, %d drawn, %d selected, confidence %d",
					env.ProblemID, env.Answer.Type, len(env.Answer.DrawnElements),
					len(env.Answer.SelectedElements), env.Answer.ConfidenceLevel)
				return !listenRejectAll
			},
		})

		fmt.Printf("✅ Listening on ws://%s%s\n", ln.Addr(), submit.DefaultPath)
		return http.Serve(ln, mux)
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)
	listenCmd.Flags().StringVarP(&listenAddr, "addr", "a", "127.0.0.1:8765", "Address to listen on")
	listenCmd.Flags().BoolVar(&listenAdvertise, "advertise", false, "Announce the evaluator over mDNS")
	listenCmd.Flags().BoolVar(&listenRejectAll, "reject", false, "Reject every answer")
}
