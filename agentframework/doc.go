// Copyright (c) Microsoft. All rights reserved.

// Package agentframework provides the small agent abstraction the matchmaking
// service is built on: an [Agent] descriptor, a [Tool] contract, and a
// streaming [RunResult] that republishes chat-completion deltas as typed
// [StreamEvent] values.
//
// # Quick Start
//
// Create a ChatClient (e.g., from the openai package) and build an Agent:
//
//	client := openai.New(os.Getenv("GEMINI_API_KEY"), openai.WithModel("gemini-2.0-flash"))
//
//	agent := agentframework.NewAgent(client,
//	    agentframework.WithName("Matchmaker Auntie"),
//	    agentframework.WithInstructions("You are a matchmaking assistant."),
//	    agentframework.WithTools(whatsappTool),
//	)
//
//	events, err := agentframework.RunStreamed(agent, "A new matchmaking request ...").StreamEvents(ctx)
//	if err != nil {
//	    return err
//	}
//	defer events.Close()
//	for {
//	    ev, ok, err := events.Next(ctx)
//	    if err != nil || !ok {
//	        break
//	    }
//	    fmt.Print(ev.Data.Delta)
//	}
//
// # Tools
//
// Tools registered on an Agent are kept in a name-keyed registry. The
// streaming path never consults it: the model is not offered the tools and
// no model output is dispatched to them. Application code looks tools up with
// [Agent.Tool] and invokes them itself.
//
// # Streams
//
// [ResponseStream] is a lazy, single-pass iterator. Close it to abandon the
// underlying connection early. Wrap a stream with a [Recorder] when the items
// need to be replayed.
package agentframework
